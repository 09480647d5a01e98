package sms

import (
	"fmt"
	"strings"
)

const (
	// DriverTwilio selects the Twilio REST API.
	DriverTwilio = "twilio"
	// DriverHTTP selects a generic form-post API.
	DriverHTTP = "http"
	// DriverLog only logs messages.
	DriverLog = "log"
)

// FactoryOptions groups configuration for sms drivers.
type FactoryOptions struct {
	Twilio TwilioConfig
	HTTP   HTTPConfig
}

// NewFromDriver constructs a Gateway by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverTwilio:
		return NewTwilio(opts.Twilio)
	case DriverHTTP:
		return NewHTTP(opts.HTTP)
	case DriverLog, "":
		return NewLog(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
