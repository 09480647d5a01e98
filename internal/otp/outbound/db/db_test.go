package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
	"github.com/shandysiswandi/onboard/internal/pkg/instrument"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func newDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in -short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:17-alpine",
		tcpostgres.WithDatabase("onboard"),
		tcpostgres.WithUsername("onboard"),
		tcpostgres.WithPassword("onboard"),
		tcpostgres.WithInitScripts(filepath.Join("..", "..", "..", "..", "database", "schema.sql")),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool: %v", err)
	}
	t.Cleanup(pool.Close)

	return NewDB(pool, instrument.NewNoop())
}

var (
	base   = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	policy = entity.IssuePolicy{Window: 5 * time.Minute, MaxIssues: 3}
)

func newRecord(id int64, purpose entity.Purpose, at time.Time) entity.NewRecord {
	return entity.NewRecord{
		ID:          id,
		Phone:       "9876543210",
		Purpose:     purpose,
		CodeHash:    "5d41402abc4b2a76b9719d911017c592",
		MaxAttempts: 3,
		ExpiresAt:   at.Add(10 * time.Minute),
		CreatedAt:   at,
	}
}

func TestDB(t *testing.T) {
	repo := newDB(t)
	ctx := context.Background()

	t.Run("create replaces the active code", func(t *testing.T) {
		if err := repo.CreateCode(ctx, newRecord(1, entity.PurposeLogin, base), policy); err != nil {
			t.Fatalf("CreateCode(1) = %v", err)
		}
		if err := repo.CreateCode(ctx, newRecord(2, entity.PurposeLogin, base.Add(time.Minute)), policy); err != nil {
			t.Fatalf("CreateCode(2) = %v", err)
		}

		active, err := repo.GetActiveCode(ctx, "9876543210", entity.PurposeLogin)
		if err != nil {
			t.Fatalf("GetActiveCode() = %v", err)
		}
		if active.ID != 2 {
			t.Fatalf("active id = %d, want 2", active.ID)
		}

		old, err := repo.GetCodeByID(ctx, 1)
		if err != nil {
			t.Fatalf("GetCodeByID(1) = %v", err)
		}
		if !old.Used || old.UsedAt == nil {
			t.Fatalf("old record = %+v, want used", old)
		}
	})

	t.Run("rate limit counts every purpose", func(t *testing.T) {
		if err := repo.CreateCode(ctx, newRecord(3, entity.PurposeRegistration, base.Add(2*time.Minute)), policy); err != nil {
			t.Fatalf("CreateCode(3) = %v", err)
		}
		err := repo.CreateCode(ctx, newRecord(4, entity.PurposeVerification, base.Add(3*time.Minute)), policy)
		if !errors.Is(err, entity.ErrRateLimitExceeded) {
			t.Fatalf("CreateCode(4) = %v, want rate limit exceeded", err)
		}
		if _, err := repo.GetCodeByID(ctx, 4); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("rejected record was stored: %v", err)
		}
	})

	t.Run("cooldown applies per purpose", func(t *testing.T) {
		resend := entity.IssuePolicy{Window: 5 * time.Minute, MaxIssues: 10, Cooldown: time.Minute}
		err := repo.CreateCode(ctx, newRecord(5, entity.PurposeRegistration, base.Add(2*time.Minute+30*time.Second)), resend)
		if !errors.Is(err, entity.ErrTooSoon) {
			t.Fatalf("CreateCode(5) = %v, want too soon", err)
		}
	})

	t.Run("attempts stop at the maximum", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			ok, err := repo.IncrementAttempts(ctx, 2)
			if err != nil || !ok {
				t.Fatalf("IncrementAttempts #%d = %v, %v", i, ok, err)
			}
		}
		ok, err := repo.IncrementAttempts(ctx, 2)
		if err != nil || ok {
			t.Fatalf("IncrementAttempts past max = %v, %v; want false", ok, err)
		}
		ok, err = repo.ConsumeCode(ctx, 2, base.Add(2*time.Minute))
		if err != nil || ok {
			t.Fatalf("ConsumeCode on exhausted = %v, %v; want false", ok, err)
		}
	})

	t.Run("consume succeeds once", func(t *testing.T) {
		now := base.Add(5 * time.Minute)

		var wg sync.WaitGroup
		results := make([]bool, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = repo.ConsumeCode(ctx, 3, now)
			}(i)
		}
		wg.Wait()

		won := 0
		for _, ok := range results {
			if ok {
				won++
			}
		}
		if won != 1 {
			t.Fatalf("successful consumes = %d, want 1", won)
		}
	})

	t.Run("delivery ref is stored", func(t *testing.T) {
		if err := repo.SetDeliveryRef(ctx, 3, "SM123"); err != nil {
			t.Fatalf("SetDeliveryRef() = %v", err)
		}
		rec, err := repo.GetCodeByID(ctx, 3)
		if err != nil || rec.DeliveryRef != "SM123" {
			t.Fatalf("GetCodeByID() = %+v, %v", rec, err)
		}
	})

	t.Run("sweep lists and deletes finished codes", func(t *testing.T) {
		later := base.Add(48 * time.Hour)
		rows, err := repo.ListSweepable(ctx, later.Add(-24*time.Hour), later, 100)
		if err != nil {
			t.Fatalf("ListSweepable() = %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("sweepable = %d, want 3", len(rows))
		}
		for _, r := range rows {
			if r.CodeHash != "" {
				t.Fatalf("record %d carries a code hash", r.ID)
			}
		}

		n, err := repo.DeleteCodes(ctx, []int64{rows[0].ID, rows[1].ID, rows[2].ID, 999})
		if err != nil || n != 3 {
			t.Fatalf("DeleteCodes() = %d, %v; want 3", n, err)
		}
		if _, err := repo.GetActiveCode(ctx, "9876543210", entity.PurposeLogin); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("GetActiveCode() after sweep = %v, want not found", err)
		}
	})
}
