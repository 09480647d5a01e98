package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestManagerCollectsErrors(t *testing.T) {
	// Arrange
	g := NewManager(4)
	boom := errors.New("boom")

	// Act
	g.Go(context.Background(), func(context.Context) error { return boom })
	g.Go(context.Background(), func(context.Context) error { panic("recovered") })
	g.Go(context.Background(), func(context.Context) error { return nil })
	err := g.Wait()

	// Assert
	if !errors.Is(err, boom) {
		t.Fatalf("Wait() = %v, want boom", err)
	}
}

func TestManagerRejectsAfterWait(t *testing.T) {
	g := NewManager(1)
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}

	var ran atomic.Bool
	g.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if ran.Load() {
		t.Fatal("closed manager must not run new work")
	}
}

func TestManagerEveryStopsOnCancel(t *testing.T) {
	// Arrange
	g := NewManager(2)
	ctx, cancel := context.WithCancel(context.Background())

	var runs atomic.Int32
	done := make(chan struct{})

	// Act
	g.Every(ctx, "test", 5*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 3 {
			close(done)
		}
		return errors.New("logged, not fatal")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic job did not run three times")
	}
	cancel()

	// Assert
	if err := g.Wait(); err != nil {
		t.Fatalf("Wait() = %v, want nil", err)
	}
}
