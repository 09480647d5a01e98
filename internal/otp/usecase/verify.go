package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
)

type VerifyInput struct {
	Phone   string `validate:"required,phone"`
	Code    string `validate:"required,otpcode"`
	Purpose string `validate:"required,oneof=registration login verification password_reset"`
}

type VerifyOutput struct {
	Phone          string
	Purpose        string
	VerifiedAt     time.Time
	AccessToken    string
	TokenExpiresAt time.Time
}

// Verify checks a code against the newest active record. The attempt
// counter and the consume step are conditional updates, so concurrent calls
// never push attempts past the maximum or succeed twice on one record.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone, err := s.normalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}
	purpose := entity.ParsePurpose(in.Purpose)

	rec, err := s.repoDB.GetActiveCode(ctx, phone, purpose)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, entity.ErrNoActiveCode
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get active otp code", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()

	if rec.Expired(now) {
		if err := s.retire(ctx, rec.ID, now); err != nil {
			return nil, err
		}
		return nil, entity.ErrExpired
	}

	if rec.Exhausted() {
		if err := s.retire(ctx, rec.ID, now); err != nil {
			return nil, err
		}
		return nil, entity.ErrAttemptsExhausted
	}

	if !s.hmac.Verify(rec.CodeHash, in.Code) {
		counted, err := s.repoDB.IncrementAttempts(ctx, rec.ID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo increment otp attempts", "record_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		if !counted {
			return nil, entity.ErrAttemptsExhausted
		}
		slog.WarnContext(ctx, "otp code mismatch", "phone", phone, "record_id", rec.ID)
		return nil, entity.ErrCodeMismatch
	}

	consumed, err := s.repoDB.ConsumeCode(ctx, rec.ID, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo consume otp code", "record_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !consumed {
		return nil, entity.ErrNoActiveCode
	}

	e164 := s.phonePlan().E164(phone)
	out := &VerifyOutput{
		Phone:      e164,
		Purpose:    purpose.String(),
		VerifiedAt: now,
	}

	if purpose.IssuesSession() {
		token, exp, err := s.jwt.Generate(e164, purpose.String())
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate access token", "record_id", rec.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		out.AccessToken = token
		out.TokenExpiresAt = exp
	}

	if err := s.repoMessaging.PublishVerified(ctx, VerifiedEvent{
		RecordID:   rec.ID,
		Phone:      e164,
		Purpose:    purpose,
		VerifiedAt: now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp verified", "record_id", rec.ID, "error", err)
	}

	return out, nil
}

// retire marks a record used after it was found expired or exhausted. Losing
// the race to another caller is fine, the record is retired either way.
func (s *Usecase) retire(ctx context.Context, id int64, now time.Time) error {
	if _, err := s.repoDB.MarkCodeUsed(ctx, id, now); err != nil {
		slog.ErrorContext(ctx, "failed to repo mark otp code used", "record_id", id, "error", err)
		return goerror.NewServer(err)
	}
	return nil
}
