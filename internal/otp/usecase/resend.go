package usecase

import (
	"context"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
)

type ResendInput struct {
	Phone          string `validate:"required,phone"`
	Purpose        string `validate:"required,oneof=registration login verification password_reset"`
	IdempotencyKey string `validate:"omitempty,max=128"`
}

// Resend issues a replacement code unless one was issued for the same
// phone and purpose within the cooldown.
func (s *Usecase) Resend(ctx context.Context, in ResendInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Resend")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone, err := s.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	purpose := entity.ParsePurpose(in.Purpose)

	var out *IssueOutput
	err = s.once(ctx, "resend", phone, in.IdempotencyKey, func(ctx context.Context) error {
		var ierr error
		out, ierr = s.issue(ctx, phone, purpose, true)
		return ierr
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
