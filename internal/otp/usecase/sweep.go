package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/onboard/internal/otp/entity"
	"github.com/shandysiswandi/onboard/internal/pkg/goerror"
)

const sweepDeleteChunk = 500

// Sweep removes one batch of used or expired records older than the
// retention window, archiving them first when archiving is enabled.
// A run that starts while another is still going returns immediately.
func (s *Usecase) Sweep(ctx context.Context) (entity.SweepResult, error) {
	ctx, span := s.startSpan(ctx, "Sweep")
	defer span.End()

	if !s.sweeping.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "otp sweep already running, skipped")
		return entity.SweepResult{}, nil
	}
	defer s.sweeping.Store(false)

	now := s.clock.Now()
	cutoff := now.Add(-s.sweepRetention())

	var records []entity.Record
	err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		var lerr error
		records, lerr = s.repoDB.ListSweepable(ctx, cutoff, now, s.sweepBatchSize())
		if lerr != nil {
			slog.WarnContext(ctx, "otp sweep list failed, retrying", "error", lerr)
			return retry.RetryableError(lerr)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list sweepable otp codes", "error", err)
		return entity.SweepResult{}, goerror.NewServer(err)
	}
	if len(records) == 0 {
		return entity.SweepResult{}, nil
	}

	var result entity.SweepResult
	var archiveKey string
	if s.repoArchive != nil && s.cfg.GetBool("modules.otp.sweep.archive.enabled") {
		key, n, aerr := s.repoArchive.Archive(ctx, records, now)
		if aerr != nil {
			slog.ErrorContext(ctx, "failed to archive otp codes, nothing deleted", "count", len(records), "error", aerr)
			return entity.SweepResult{}, goerror.NewServer(aerr)
		}
		archiveKey = key
		result.Archived = n
	}

	ids := lo.Map(records, func(r entity.Record, _ int) int64 { return r.ID })
	for _, chunk := range lo.Chunk(ids, sweepDeleteChunk) {
		err := retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
			n, derr := s.repoDB.DeleteCodes(ctx, chunk)
			if derr != nil {
				slog.WarnContext(ctx, "otp sweep delete failed, retrying", "error", derr)
				return retry.RetryableError(derr)
			}
			result.Deleted += n
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo delete otp codes", "deleted", result.Deleted, "error", err)
			return result, goerror.NewServer(err)
		}
	}

	slog.InfoContext(ctx, "otp sweep finished", "deleted", result.Deleted, "archived", result.Archived)

	if err := s.repoMessaging.PublishSwept(ctx, SweptEvent{
		Deleted:    result.Deleted,
		Archived:   result.Archived,
		ArchiveKey: archiveKey,
		SweptAt:    now,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp swept", "error", err)
	}

	return result, nil
}

func (s *Usecase) backoff() retry.Backoff {
	b := retry.NewFibonacci(s.retryBase)
	b = retry.WithMaxRetries(3, b)
	return retry.WithCappedDuration(5*time.Second, b)
}
