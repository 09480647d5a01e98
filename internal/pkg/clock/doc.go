// Package clock provides a tiny time abstraction.
//
// Business code depends on Clocker instead of calling time.Now directly, so
// expiry and rate-limit windows can be tested against a Frozen clock.
package clock
