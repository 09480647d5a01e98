package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goroutine"
)

type sweeper interface {
	Sweep(ctx context.Context) (entity.SweepResult, error)
}

// RegisterSweepJob schedules the sweep on the goroutine manager. A
// non-positive interval disables it.
func RegisterSweepJob(ctx context.Context, g *goroutine.Manager, interval time.Duration, s sweeper) {
	g.Every(ctx, "otp.sweep", interval, func(ctx context.Context) error {
		_, err := s.Sweep(ctx)
		return err
	})
}
