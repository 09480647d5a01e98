package validator

import (
	"errors"
	"testing"
)

type otpInput struct {
	Phone   string `validate:"required,phone"`
	Code    string `validate:"required,otpcode"`
	Purpose string `validate:"required,oneof=registration login verification password_reset"`
}

func TestV10Validator(t *testing.T) {
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() = %v", err)
	}

	tests := []struct {
		name       string
		in         otpInput
		wantFields []string
	}{
		{
			name: "valid",
			in:   otpInput{Phone: "+91 98765-43210", Code: "123456", Purpose: "login"},
		},
		{
			name:       "bad code and purpose",
			in:         otpInput{Phone: "9876543210", Code: "12a456", Purpose: "signup"},
			wantFields: []string{"code", "purpose"},
		},
		{
			name:       "bad phone",
			in:         otpInput{Phone: "call-me", Code: "123456", Purpose: "login"},
			wantFields: []string{"phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr V10ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want V10ValidationError", err)
			}
			for _, f := range tt.wantFields {
				if verr[f] == "" {
					t.Fatalf("missing field %q in %v", f, verr)
				}
			}
			if len(verr) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", verr, tt.wantFields)
			}
		})
	}
}

func TestV10ValidatorCustomMessage(t *testing.T) {
	v, _ := NewV10Validator()

	err := v.Validate(otpInput{Phone: "9876543210", Code: "1", Purpose: "login"})

	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v", err)
	}
	if got := verr["code"]; got != "Code must be exactly 6 digits" {
		t.Fatalf("message = %q", got)
	}
}
