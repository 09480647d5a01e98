// Package sms sends text messages through a configurable provider.
package sms

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrRecipientRequired is returned when Send is called without a number.
	ErrRecipientRequired = errors.New("sms: recipient is required")
	// ErrUnknownDriver indicates an unsupported sms driver.
	ErrUnknownDriver = errors.New("sms: unknown driver")
)

// Gateway delivers a message body to a phone number in E.164 form.
type Gateway interface {
	Send(ctx context.Context, to, body string) (Receipt, error)
}

// Receipt identifies an accepted message at the provider.
type Receipt struct {
	// ID is the provider message id.
	ID string
	// Provider names the gateway that accepted the message.
	Provider string
}

// DeliveryError wraps a provider failure.
type DeliveryError struct {
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("sms: %s delivery failed: %v", e.Provider, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
