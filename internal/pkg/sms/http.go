package sms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrHTTPURLRequired is returned when the HTTP gateway has no endpoint.
var ErrHTTPURLRequired = errors.New("sms: http gateway url is required")

// HTTPConfig configures a generic form-post SMS API.
type HTTPConfig struct {
	URL string
	// APIKey is sent in APIKeyHeader (default "X-API-Key").
	APIKey       string
	APIKeyHeader string
	From         string
	Client       *http.Client
}

// HTTP posts to, from and body as a form to a provider endpoint.
type HTTP struct {
	endpoint string
	apiKey   string
	header   string
	from     string
	client   *http.Client
}

// NewHTTP builds an HTTP gateway.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.URL == "" {
		return nil, ErrHTTPURLRequired
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return nil, fmt.Errorf("sms: invalid http gateway url: %w", err)
	}

	h := &HTTP{
		endpoint: cfg.URL,
		apiKey:   cfg.APIKey,
		header:   cfg.APIKeyHeader,
		from:     cfg.From,
		client:   cfg.Client,
	}
	if h.header == "" {
		h.header = "X-API-Key"
	}
	if h.client == nil {
		h.client = &http.Client{Timeout: 15 * time.Second}
	}
	return h, nil
}

type httpReceipt struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"`
	SID       string `json:"sid"`
}

// Send posts the message once. Non-2xx responses are delivery failures.
func (h *HTTP) Send(ctx context.Context, to, body string) (Receipt, error) {
	if to == "" {
		return Receipt{}, ErrRecipientRequired
	}

	form := url.Values{}
	form.Set("to", to)
	form.Set("body", body)
	if h.from != "" {
		form.Set("from", h.from)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, &DeliveryError{Provider: DriverHTTP, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set(h.header, h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return Receipt{}, &DeliveryError{Provider: DriverHTTP, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return Receipt{}, &DeliveryError{Provider: DriverHTTP, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		//nolint:err113 // provider status is dynamic
		return Receipt{}, &DeliveryError{Provider: DriverHTTP, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var hr httpReceipt
	//nolint:errcheck // providers that return no json still accepted the message
	_ = json.Unmarshal(payload, &hr)

	id := hr.ID
	if id == "" {
		id = hr.MessageID
	}
	if id == "" {
		id = hr.SID
	}

	return Receipt{ID: id, Provider: DriverHTTP}, nil
}
