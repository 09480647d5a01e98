package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/shandysiswandi/onboard/internal/pkg/sqlc"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn  *pgxpool.Pool
	query *sqlc.Queries
	ins   instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:  conn,
		query: sqlc.New(conn),
		ins:   ins,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - 23514 check_violation → constraint broken by the caller, returned as is
// - 40001 serialization_failure and 40P01 deadlock_detected → retryable, returned as is
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil &&
		!errors.Is(err, goerror.ErrNotFound) &&
		!errors.Is(err, goerror.ErrConflict) &&
		!errors.Is(err, entity.ErrRateLimitExceeded) &&
		!errors.Is(err, entity.ErrTooSoon) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func toRecord(row sqlc.OtpCode) entity.Record {
	rec := entity.Record{
		ID:          row.ID,
		Phone:       row.Phone,
		Purpose:     row.Purpose,
		CodeHash:    row.CodeHash,
		Attempts:    row.Attempts,
		MaxAttempts: row.MaxAttempts,
		Used:        row.Used,
		DeliveryRef: row.DeliveryRef,
		ExpiresAt:   row.ExpiresAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.UsedAt.Valid {
		at := row.UsedAt.Time
		rec.UsedAt = &at
	}
	return rec
}
