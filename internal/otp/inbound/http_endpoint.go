package inbound

import (
	"github.com/shandysiswandi/onboard/internal/otp/usecase"
	"github.com/shandysiswandi/onboard/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the OTP lifecycle.
type HTTPEndpoint struct {
	uc uc
}

// Issue sends a fresh one-time code to a phone number.
// @Summary Issue OTP
// @Description Generates a 6 digit code for the phone and purpose, invalidates earlier codes and sends it by SMS.
// @Tags OTP
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client key that makes the request safe to retry"
// @Param request body IssueRequest true "Issue payload"
// @Success 200 {object} router.successResponse{data=IssueResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Duplicate request"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many codes requested"
// @Failure 502 {object} router.errorResponse "SMS delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/issue [post]
func (h *HTTPEndpoint) Issue(r *router.Request) (any, error) {
	key, err := r.IdempotencyKey()
	if err != nil {
		return nil, err
	}

	var req IssueRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Issue(r.Context(), usecase.IssueInput{
		Phone:          req.Phone,
		Purpose:        req.Purpose,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	return IssueResponse{Phone: resp.Phone, ExpiresAt: resp.ExpiresAt}, nil
}

// Verify checks a code and consumes it on success.
// @Summary Verify OTP
// @Description Checks the code against the newest active code. Login and registration return an access token.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Phone verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid, expired or exhausted code"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Phone:   req.Phone,
		Code:    req.Code,
		Purpose: req.Purpose,
	})
	if err != nil {
		return nil, err
	}

	out := VerifyResponse{
		Phone:       resp.Phone,
		Purpose:     resp.Purpose,
		VerifiedAt:  resp.VerifiedAt,
		AccessToken: resp.AccessToken,
	}
	if !resp.TokenExpiresAt.IsZero() {
		exp := resp.TokenExpiresAt
		out.TokenExpiresAt = &exp
	}

	return out, nil
}

// Resend replaces the active code once the cooldown has passed.
// @Summary Resend OTP
// @Description Issues a replacement code for the phone and purpose. Rejected within the resend cooldown.
// @Tags OTP
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Client key that makes the request safe to retry"
// @Param request body ResendRequest true "Resend payload"
// @Success 200 {object} router.successResponse{data=ResendResponse} "Code sent"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Duplicate request"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Cooldown or rate limit"
// @Failure 502 {object} router.errorResponse "SMS delivery failed"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/otp/resend [post]
func (h *HTTPEndpoint) Resend(r *router.Request) (any, error) {
	key, err := r.IdempotencyKey()
	if err != nil {
		return nil, err
	}

	var req ResendRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Resend(r.Context(), usecase.ResendInput{
		Phone:          req.Phone,
		Purpose:        req.Purpose,
		IdempotencyKey: key,
	})
	if err != nil {
		return nil, err
	}

	return ResendResponse{Phone: resp.Phone, ExpiresAt: resp.ExpiresAt}, nil
}

// Session describes the bearer token of the caller.
// @Summary Current session
// @Description Returns the verified phone and expiry carried by the access token.
// @Tags OTP
// @Produce json
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=SessionResponse} "Session"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Router /api/v1/otp/session [get]
func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		Phone:     resp.Phone,
		Purpose:   resp.Purpose,
		IssuedAt:  resp.IssuedAt,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
