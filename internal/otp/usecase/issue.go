package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
)

// compensateTimeout bounds retiring an undelivered code after the request
// context is gone.
const compensateTimeout = 3 * time.Second

type IssueInput struct {
	Phone          string `validate:"required,phone"`
	Purpose        string `validate:"required,oneof=registration login verification password_reset"`
	IdempotencyKey string `validate:"omitempty,max=128"`
}

type IssueOutput struct {
	Phone     string
	ExpiresAt time.Time
}

func (s *Usecase) Issue(ctx context.Context, in IssueInput) (*IssueOutput, error) {
	ctx, span := s.startSpan(ctx, "Issue")
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
	err = s.once(ctx, "issue", phone, in.IdempotencyKey, func(ctx context.Context) error {
		var ierr error
		out, ierr = s.issue(ctx, phone, purpose, false)
		return ierr
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// issue stores a fresh code for (phone, purpose) and delivers it. Earlier
// unused codes for the pair stop being valid once the new one is stored.
func (s *Usecase) issue(ctx context.Context, phone string, purpose entity.Purpose, resend bool) (*IssueOutput, error) {
	code, err := s.newCode()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	ttl := s.codeTTL()
	rec := entity.NewRecord{
		ID:          s.uid.Generate(),
		Phone:       phone,
		Purpose:     purpose,
		CodeHash:    string(codeHash),
		MaxAttempts: s.maxAttempts(),
		ExpiresAt:   now.Add(ttl),
		CreatedAt:   now,
	}

	if err := s.repoDB.CreateCode(ctx, rec, s.issuePolicy(resend)); err != nil {
		if errors.Is(err, entity.ErrRateLimitExceeded) || errors.Is(err, entity.ErrTooSoon) {
			slog.WarnContext(ctx, "otp issue rejected", "phone", phone, "purpose", purpose.String(), "reason", err.Error())
			return nil, err
		}
		slog.ErrorContext(ctx, "failed to repo create otp code", "phone", phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	plan := s.phonePlan()
	ref, err := s.deliver(ctx, plan.E164(phone), code, ttl)
	if err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp code", "phone", phone, "record_id", rec.ID, "error", err)
		if s.cfg.GetBool("modules.otp.delivery.invalidate_on_failure") {
			// the send may have failed because ctx was canceled
			mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
			if _, merr := s.repoDB.MarkCodeUsed(mctx, rec.ID, s.clock.Now()); merr != nil {
				slog.ErrorContext(ctx, "failed to invalidate undelivered otp code", "record_id", rec.ID, "error", merr)
			}
			cancel()
		}
		return nil, goerror.WithCause(entity.ErrDeliveryFailed, err)
	}

	if ref != "" {
		if err := s.repoDB.SetDeliveryRef(ctx, rec.ID, ref); err != nil {
			slog.ErrorContext(ctx, "failed to repo set delivery ref", "record_id", rec.ID, "error", err)
		}
	}

	if err := s.repoMessaging.PublishIssued(ctx, IssuedEvent{
		RecordID:    rec.ID,
		Phone:       plan.E164(phone),
		Purpose:     purpose,
		ExpiresAt:   rec.ExpiresAt,
		DeliveryRef: ref,
		Resend:      resend,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued", "record_id", rec.ID, "error", err)
	}

	return &IssueOutput{Phone: plan.E164(phone), ExpiresAt: rec.ExpiresAt}, nil
}

// deliver sends the code, or only logs it in quiet mode.
func (s *Usecase) deliver(ctx context.Context, to, code string, ttl time.Duration) (string, error) {
	if s.cfg.GetBool("modules.otp.delivery.quiet") {
		slog.InfoContext(ctx, "otp delivery skipped in quiet mode", "phone", to, "otp_code", code)
		return "", nil
	}

	return s.repoGateway.Send(ctx, to, fmt.Sprintf(s.messageTemplate(), code, int(ttl.Minutes())))
}
