package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
	"github.com/shandysiswandi/onboard/internal/pkg/jwt"
)

type SessionOutput struct {
	Phone     string
	Purpose   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s *Usecase) Session(ctx context.Context) (*SessionOutput, error) {
	_, span := s.startSpan(ctx, "Session")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	out := &SessionOutput{Phone: clm.Phone, Purpose: clm.Purpose}
	if clm.IssuedAt != nil {
		out.IssuedAt = clm.IssuedAt.Time
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
