package inbound

import "time"

type IssueRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type IssueResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (IssueResponse) Message() string {
	return "Verification code sent."
}

type ResendRequest struct {
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

type ResendResponse struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (ResendResponse) Message() string {
	return "A new verification code has been sent."
}

type VerifyRequest struct {
	Phone   string `json:"phone"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

type VerifyResponse struct {
	Phone          string     `json:"phone"`
	Purpose        string     `json:"purpose"`
	VerifiedAt     time.Time  `json:"verified_at"`
	AccessToken    string     `json:"access_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

func (VerifyResponse) Message() string {
	return "Phone number verified."
}

type SessionResponse struct {
	Phone     string    `json:"phone"`
	Purpose   string    `json:"purpose"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
