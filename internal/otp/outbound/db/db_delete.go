package db

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/sqlc"
)

// ListSweepable returns used or expired records created before cutoff,
// oldest id first. Code hashes are not selected.
func (s *DB) ListSweepable(ctx context.Context, cutoff, now time.Time, limit int32) (_ []entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "ListSweepable")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.query.ListOtpSweepable(ctx, sqlc.ListOtpSweepableParams{
		Cutoff:    timestamptz(cutoff),
		Now:       timestamptz(now),
		BatchSize: limit,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return lo.Map(rows, func(row sqlc.ListOtpSweepableRow, _ int) entity.Record {
		return toRecord(sqlc.OtpCode{
			ID:          row.ID,
			Phone:       row.Phone,
			Purpose:     row.Purpose,
			Attempts:    row.Attempts,
			MaxAttempts: row.MaxAttempts,
			Used:        row.Used,
			UsedAt:      row.UsedAt,
			DeliveryRef: row.DeliveryRef,
			ExpiresAt:   row.ExpiresAt,
			CreatedAt:   row.CreatedAt,
		})
	}), nil
}

func (s *DB) DeleteCodes(ctx context.Context, ids []int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteCodes")
	defer func() { s.endSpan(span, err) }()

	if len(ids) == 0 {
		return 0, nil
	}

	n, err := s.query.DeleteOtpByIDs(ctx, ids)
	if err != nil {
		return 0, s.mapError(err)
	}
	return n, nil
}
