package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/onboard/internal/pkg/sqlc"
)

func (s *DB) SetDeliveryRef(ctx context.Context, id int64, ref string) (err error) {
	ctx, span := s.startSpan(ctx, "SetDeliveryRef")
	defer func() { s.endSpan(span, err) }()

	err = s.mapError(s.query.UpdateOtpDeliveryRef(ctx, sqlc.UpdateOtpDeliveryRefParams{
		ID:          id,
		DeliveryRef: ref,
	}))
	return err
}

// The conditional updates below report true only when this call changed the row.

func (s *DB) MarkCodeUsed(ctx context.Context, id int64, at time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkCodeUsed")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.MarkOtpUsed(ctx, sqlc.MarkOtpUsedParams{ID: id, UsedAt: timestamptz(at)})
	if err != nil {
		return false, s.mapError(err)
	}
	return n == 1, nil
}

func (s *DB) IncrementAttempts(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.IncrementOtpAttempts(ctx, id)
	if err != nil {
		return false, s.mapError(err)
	}
	return n == 1, nil
}

func (s *DB) ConsumeCode(ctx context.Context, id int64, now time.Time) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeCode")
	defer func() { s.endSpan(span, err) }()

	n, err := s.query.ConsumeOtp(ctx, sqlc.ConsumeOtpParams{ID: id, Now: timestamptz(now)})
	if err != nil {
		return false, s.mapError(err)
	}
	return n == 1, nil
}
