package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis container in -short mode")
	}

	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}
	opt, err := redis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestStateTrackerExec(t *testing.T) {
	client := newRedis(t)
	ctx := context.Background()
	tracker := New(client, "test:")

	t.Run("second call with same key is rejected", func(t *testing.T) {
		calls := 0
		fn := func(context.Context) error {
			calls++
			return nil
		}

		if err := tracker.Exec(ctx, "issue-1", fn); err != nil {
			t.Fatalf("first Exec() = %v", err)
		}
		if err := tracker.Exec(ctx, "issue-1", fn); !errors.Is(err, ErrAlreadyCompleted) {
			t.Fatalf("second Exec() = %v, want ErrAlreadyCompleted", err)
		}
		if calls != 1 {
			t.Fatalf("calls = %d, want 1", calls)
		}
	})

	t.Run("failure is remembered by default", func(t *testing.T) {
		boom := errors.New("boom")
		err := tracker.Exec(ctx, "issue-2", func(context.Context) error { return boom })
		if !errors.Is(err, boom) {
			t.Fatalf("Exec() = %v, want boom", err)
		}

		err = tracker.Exec(ctx, "issue-2", func(context.Context) error { return nil })
		if !errors.Is(err, ErrAlreadyFailed) {
			t.Fatalf("retry Exec() = %v, want ErrAlreadyFailed", err)
		}
	})

	t.Run("failure releases the key when asked", func(t *testing.T) {
		boom := errors.New("boom")
		_ = tracker.Exec(ctx, "issue-3", func(context.Context) error { return boom }, WithReleaseOnFailure())

		err := tracker.Exec(ctx, "issue-3", func(context.Context) error { return nil }, WithReleaseOnFailure())
		if err != nil {
			t.Fatalf("retry Exec() = %v, want nil", err)
		}
	})

	t.Run("in progress key blocks duplicates", func(t *testing.T) {
		state, err := tracker.Acquire(ctx, "issue-4", time.Minute)
		if err != nil || state != StateNone {
			t.Fatalf("Acquire() = %v, %v", state, err)
		}

		err = tracker.Exec(ctx, "issue-4", func(context.Context) error { return nil })
		if !errors.Is(err, ErrAlreadyInProgress) {
			t.Fatalf("Exec() = %v, want ErrAlreadyInProgress", err)
		}
	})
}
