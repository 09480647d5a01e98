package db

import (
	"context"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/sqlc"
)

func (s *DB) GetActiveCode(ctx context.Context, phone string, purpose entity.Purpose) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveCode")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetOtpActive(ctx, sqlc.GetOtpActiveParams{Phone: phone, Purpose: purpose})
	if err != nil {
		return nil, s.mapError(err)
	}

	rec := toRecord(row)
	return &rec, nil
}

func (s *DB) GetCodeByID(ctx context.Context, id int64) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "GetCodeByID")
	defer func() { s.endSpan(span, err) }()

	row, err := s.query.GetOtpByID(ctx, id)
	if err != nil {
		return nil, s.mapError(err)
	}

	rec := toRecord(row)
	return &rec, nil
}
