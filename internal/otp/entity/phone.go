package entity

import (
	"errors"
	"strings"
)

// ErrPhoneInvalid is returned when a number cannot be reduced to a subscriber number.
var ErrPhoneInvalid = errors.New("otp: phone number is invalid")

// PhonePlan describes the single numbering plan the service accepts.
type PhonePlan struct {
	// CountryCode without the plus, e.g. "91".
	CountryCode string
	// SubscriberLength is the digit count after the country code.
	SubscriberLength int
}

// DefaultPhonePlan is India: +91 and 10 digit subscriber numbers.
var DefaultPhonePlan = PhonePlan{CountryCode: "91", SubscriberLength: 10}

// Normalize strips everything but digits and removes a country code or trunk
// zero prefix. The result is the subscriber number used as the storage key.
func (p PhonePlan) Normalize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == p.SubscriberLength:
	case p.CountryCode != "" && len(digits) == len(p.CountryCode)+p.SubscriberLength && strings.HasPrefix(digits, p.CountryCode):
		digits = digits[len(p.CountryCode):]
	case len(digits) == p.SubscriberLength+1 && digits[0] == '0':
		digits = digits[1:]
	default:
		return "", ErrPhoneInvalid
	}

	if p.SubscriberLength <= 0 || digits[0] == '0' {
		return "", ErrPhoneInvalid
	}
	return digits, nil
}

// E164 formats a normalized subscriber number for delivery.
func (p PhonePlan) E164(subscriber string) string {
	return "+" + p.CountryCode + subscriber
}
