package entity

import "strings"

// Purpose tells what a code proves. Stored as a SMALLINT.
type Purpose int16

const (
	PurposeUnknown       Purpose = 0
	PurposeRegistration  Purpose = 1
	PurposeLogin         Purpose = 2
	PurposeVerification  Purpose = 3
	PurposePasswordReset Purpose = 4
)

func (p Purpose) String() string {
	switch p {
	case PurposeRegistration:
		return "registration"
	case PurposeLogin:
		return "login"
	case PurposeVerification:
		return "verification"
	case PurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	switch p {
	case PurposeRegistration, PurposeLogin, PurposeVerification, PurposePasswordReset:
		return false
	default:
		return true
	}
}

// IssuesSession reports whether a successful verify hands out an access token.
func (p Purpose) IssuesSession() bool {
	return p == PurposeLogin || p == PurposeRegistration
}

// ParsePurpose maps the wire name to a Purpose. Unknown names return PurposeUnknown.
func ParsePurpose(s string) Purpose {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "registration":
		return PurposeRegistration
	case "login":
		return PurposeLogin
	case "verification":
		return PurposeVerification
	case "password_reset":
		return PurposePasswordReset
	default:
		return PurposeUnknown
	}
}
