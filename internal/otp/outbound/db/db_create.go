package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/sqlc"
)

// CreateCode applies the issue policy and stores rec in one transaction.
// The advisory lock on the phone serializes concurrent issues for the same
// number, so the count and the insert see a consistent history.
func (s *DB) CreateCode(ctx context.Context, rec entity.NewRecord, policy entity.IssuePolicy) (err error) {
	ctx, span := s.startSpan(ctx, "CreateCode")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rolback", "error", rErr)
		}
	}()

	wtx := s.query.WithTx(tx)

	if err = wtx.LockOtpPhone(ctx, rec.Phone); err != nil {
		return s.mapError(err)
	}

	if policy.Cooldown > 0 {
		recent, qErr := wtx.ExistsOtpIssuedSince(ctx, sqlc.ExistsOtpIssuedSinceParams{
			Phone:   rec.Phone,
			Purpose: rec.Purpose,
			Since:   timestamptz(rec.CreatedAt.Add(-policy.Cooldown)),
		})
		if qErr != nil {
			return s.mapError(qErr)
		}
		if recent {
			return entity.ErrTooSoon
		}
	}

	issued, err := wtx.CountOtpIssuedSince(ctx, sqlc.CountOtpIssuedSinceParams{
		Phone: rec.Phone,
		Since: timestamptz(rec.CreatedAt.Add(-policy.Window)),
	})
	if err != nil {
		return s.mapError(err)
	}
	if issued >= policy.MaxIssues {
		return entity.ErrRateLimitExceeded
	}

	if _, err = wtx.InvalidateOtpActive(ctx, sqlc.InvalidateOtpActiveParams{
		UsedAt:  timestamptz(rec.CreatedAt),
		Phone:   rec.Phone,
		Purpose: rec.Purpose,
	}); err != nil {
		return s.mapError(err)
	}

	if err = wtx.CreateOtp(ctx, sqlc.CreateOtpParams{
		ID:          rec.ID,
		Phone:       rec.Phone,
		Purpose:     rec.Purpose,
		CodeHash:    rec.CodeHash,
		MaxAttempts: rec.MaxAttempts,
		ExpiresAt:   timestamptz(rec.ExpiresAt),
		CreatedAt:   timestamptz(rec.CreatedAt),
	}); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	return nil
}
