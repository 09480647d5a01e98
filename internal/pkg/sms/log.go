package sms

import (
	"context"
	"log/slog"
	"strconv"

	"go.uber.org/atomic"
)

// Log writes messages to the logger instead of sending them.
type Log struct {
	seq atomic.Int64
}

// NewLog returns a logging gateway.
func NewLog() *Log {
	return &Log{}
}

// Send logs the message and returns a sequential receipt id.
func (l *Log) Send(ctx context.Context, to, body string) (Receipt, error) {
	if to == "" {
		return Receipt{}, ErrRecipientRequired
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, &DeliveryError{Provider: DriverLog, Err: err}
	}

	id := "log-" + strconv.FormatInt(l.seq.Inc(), 10)
	slog.InfoContext(ctx, "sms message", "phone", to, "message", body, "receipt", id)

	return Receipt{ID: id, Provider: DriverLog}, nil
}
