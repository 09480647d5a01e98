package instrument

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

const masked = "***"

type maskRule int

const (
	maskNone maskRule = iota
	maskFull
	maskPhone
)

type maskHandler struct {
	handler slog.Handler
	rules   map[string]maskRule
}

func newMaskHandler(next slog.Handler, full, phone []string) *maskHandler {
	rules := make(map[string]maskRule, len(full)+len(phone))
	for _, k := range phone {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			rules[k] = maskPhone
		}
	}
	for _, k := range full {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			rules[k] = maskFull
		}
	}

	return &maskHandler{handler: next, rules: rules}
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.rules) == 0 {
		return h.handler.Handle(ctx, record)
	}

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(h.maskAttr(attr))
		return true
	})

	return h.handler.Handle(ctx, out)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		maskedAttrs = append(maskedAttrs, h.maskAttr(a))
	}
	return &maskHandler{handler: h.handler.WithAttrs(maskedAttrs), rules: h.rules}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), rules: h.rules}
}

func (h *maskHandler) rule(key string) maskRule {
	return h.rules[strings.ToLower(key)]
}

func (h *maskHandler) maskAttr(attr slog.Attr) slog.Attr {
	switch h.rule(attr.Key) {
	case maskFull:
		return slog.String(attr.Key, masked)
	case maskPhone:
		return slog.String(attr.Key, MaskPhone(attr.Value.String()))
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			out = append(out, h.maskAttr(ga))
		}
		attr.Value = slog.GroupValue(out...)
	case slog.KindString:
		if s, ok := h.maskJSON([]byte(attr.Value.String())); ok {
			attr.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case map[string]any, []any:
			attr.Value = slog.AnyValue(h.maskData(v))
		case map[string]string:
			converted := make(map[string]any, len(v))
			for k, s := range v {
				converted[k] = s
			}
			attr.Value = slog.AnyValue(h.maskData(converted))
		case []byte:
			if s, ok := h.maskJSON(v); ok {
				attr.Value = slog.StringValue(s)
			}
		}
	}

	return attr
}

func (h *maskHandler) maskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(h.maskData(body))
	if err != nil {
		return "", false
	}

	return string(out), true
}

func (h *maskHandler) maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			switch h.rule(k) {
			case maskFull:
				out[k] = masked
			case maskPhone:
				s, _ := item.(string)
				out[k] = MaskPhone(s)
			default:
				out[k] = h.maskData(item)
			}
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = h.maskData(item)
		}
		return out
	default:
		return v
	}
}

// MaskPhone hides every digit except the last four. Non-digit characters
// such as the leading plus are kept.
func MaskPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	var b strings.Builder
	b.Grow(len(phone))

	seen := 0
	for _, r := range phone {
		if r < '0' || r > '9' {
			b.WriteRune(r)
			continue
		}
		seen++
		if digits-seen < 4 {
			b.WriteRune(r)
		} else {
			b.WriteByte('*')
		}
	}

	return b.String()
}
