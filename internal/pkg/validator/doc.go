// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface. The go-playground v10
// implementation adds the "phone" and "otpcode" rules used by OTP inputs.
package validator
