package usecase

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/repository"
	"matchchat/internal/infrastructure/cache"
	"matchchat/internal/infrastructure/metrics"
	"matchchat/pkg/logger"
)

// ReaperUseCase removes messages whose match is over or whose TTL ran out.
// All entry points are safe to call repeatedly.
type ReaperUseCase struct {
	messageRepo repository.MessageRepository
	cache       *cache.EligibilityCache
	clock       clock.Clock
	interval    time.Duration
}

func NewReaperUseCase(
	messageRepo repository.MessageRepository,
	eligibilityCache *cache.EligibilityCache,
	clk clock.Clock,
	interval time.Duration,
) *ReaperUseCase {
	return &ReaperUseCase{
		messageRepo: messageRepo,
		cache:       eligibilityCache,
		clock:       clk,
		interval:    interval,
	}
}

// Sweep deletes every message with expiresAt <= now.
func (uc *ReaperUseCase) Sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := uc.messageRepo.DeleteExpired(ctx, now)
	if err != nil {
		logger.Error("Message sweep failed: %v", err)
		return 0, err
	}
	metrics.Purged(metrics.TriggerSweep, n)
	if n > 0 {
		logger.Info("Swept %d expired messages", n)
	}
	return n, nil
}

// OnResultReported must be called by whatever persists a match result.
// It purges the channel and forgets cached eligibility for the match.
func (uc *ReaperUseCase) OnResultReported(ctx context.Context, matchID int64) (int64, error) {
	if uc.cache != nil {
		uc.cache.InvalidateMatch(matchID)
	}
	return uc.purge(ctx, matchID, metrics.TriggerResult)
}

// PurgeInactive is the synchronous purge run when a request finds a dead match.
func (uc *ReaperUseCase) PurgeInactive(ctx context.Context, matchID int64) (int64, error) {
	return uc.purge(ctx, matchID, metrics.TriggerInactive)
}

func (uc *ReaperUseCase) purge(ctx context.Context, matchID int64, trigger string) (int64, error) {
	n, err := uc.messageRepo.DeleteByMatch(ctx, matchID)
	if err != nil {
		logger.LogStoreError("purge", matchID, err)
		return 0, err
	}
	metrics.Purged(trigger, n)
	if n > 0 {
		logger.Info("Purged %d messages of match %d (%s)", n, matchID, trigger)
	}
	return n, nil
}

// StartSweepJob runs Sweep every interval until ctx is done.
func (uc *ReaperUseCase) StartSweepJob(ctx context.Context) {
	ticker := uc.clock.Ticker(uc.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				uc.Sweep(ctx, uc.clock.Now())
			case <-ctx.Done():
				return
			}
		}
	}()

	logger.Info("Message sweep job started (every %s)", uc.interval)
}
