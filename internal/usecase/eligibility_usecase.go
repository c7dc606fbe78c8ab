package usecase

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/internal/infrastructure/cache"
	"matchchat/pkg/logger"
)

// EligibilityUseCase decides who may use a match channel and whether the
// match is live. Every lookup fails closed.
type EligibilityUseCase struct {
	matchRepo repository.MatchRepository
	cache     *cache.EligibilityCache
	clock     clock.Clock
	timeout   time.Duration
}

func NewEligibilityUseCase(
	matchRepo repository.MatchRepository,
	eligibilityCache *cache.EligibilityCache,
	clk clock.Clock,
	timeout time.Duration,
) *EligibilityUseCase {
	return &EligibilityUseCase{
		matchRepo: matchRepo,
		cache:     eligibilityCache,
		clock:     clk,
		timeout:   timeout,
	}
}

func (uc *EligibilityUseCase) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// Resolve returns the side userID plays for in matchID, or SideNone.
func (uc *EligibilityUseCase) Resolve(ctx context.Context, matchID, userID int64) entity.Side {
	if userID <= 0 || matchID <= 0 {
		return entity.SideNone
	}
	if side, ok := uc.cache.Get(matchID, userID); ok {
		return side
	}

	side, err := uc.resolve(ctx, matchID, userID)
	if err != nil {
		logger.Warn("Eligibility lookup failed for match %d user %d: %v", matchID, userID, err)
		return entity.SideNone
	}

	uc.cache.Set(matchID, userID, side)
	return side
}

func (uc *EligibilityUseCase) CanChat(ctx context.Context, matchID, userID int64) bool {
	return uc.Resolve(ctx, matchID, userID).CanChat()
}

func (uc *EligibilityUseCase) resolve(ctx context.Context, matchID, userID int64) (entity.Side, error) {
	ctx, cancel := uc.lookupContext(ctx)
	defer cancel()

	roster, err := uc.matchRepo.GetParticipants(ctx, matchID)
	if err != nil {
		return entity.SideNone, err
	}

	switch {
	case containsID(roster.HomePlayers, userID):
		return entity.SideHome, nil
	case containsID(roster.AwayPlayers, userID):
		return entity.SideAway, nil
	}

	// Explicit lineups may be partial; team rosters still count.
	for _, team := range []struct {
		side entity.Side
		id   int64
	}{
		{entity.SideHome, roster.HomeTeam},
		{entity.SideAway, roster.AwayTeam},
	} {
		if team.id <= 0 {
			continue
		}
		members, err := uc.matchRepo.GetTeamMembers(ctx, team.id)
		if err != nil {
			return entity.SideNone, err
		}
		if containsID(members, userID) {
			return team.side, nil
		}
	}
	return entity.SideNone, nil
}

// IsActive reports whether the match has started and has no result yet.
// It is never cached.
func (uc *EligibilityUseCase) IsActive(ctx context.Context, matchID int64) bool {
	active, err := uc.checkActive(ctx, matchID)
	if err != nil {
		logger.Warn("Activity lookup failed for match %d: %v", matchID, err)
		return false
	}
	return active
}

// checkActive separates "definitely not active" from "could not tell", so
// callers only purge on the former.
func (uc *EligibilityUseCase) checkActive(ctx context.Context, matchID int64) (bool, error) {
	if matchID <= 0 {
		return false, nil
	}

	ctx, cancel := uc.lookupContext(ctx)
	defer cancel()

	start, err := uc.matchRepo.GetStartTime(ctx, matchID)
	if err != nil {
		return false, err
	}
	if !startedBy(start, uc.clock.Now()) {
		return false, nil
	}

	entered, err := uc.matchRepo.IsResultEntered(ctx, matchID)
	if err != nil {
		return false, err
	}
	return !entered, nil
}

// startedBy is false for unscheduled (zero or pre-epoch) and future start times.
func startedBy(start, now time.Time) bool {
	return !start.IsZero() && start.Unix() > 0 && !start.After(now)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
