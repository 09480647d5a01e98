package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/onboard/internal/otp/usecase"
	"github.com/shandysiswandi/onboard/internal/pkg/router"
)

type uc interface {
	Issue(ctx context.Context, in usecase.IssueInput) (*usecase.IssueOutput, error)
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	Resend(ctx context.Context, in usecase.ResendInput) (*usecase.IssueOutput, error)
	Session(ctx context.Context) (*usecase.SessionOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.Public(http.MethodPost, "/api/v1/otp/issue")
	r.Public(http.MethodPost, "/api/v1/otp/verify")
	r.Public(http.MethodPost, "/api/v1/otp/resend")

	r.POST("/api/v1/otp/issue", end.Issue)
	r.POST("/api/v1/otp/verify", end.Verify)
	r.POST("/api/v1/otp/resend", end.Resend)
	r.GET("/api/v1/otp/session", end.Session) // need authenticated
}
