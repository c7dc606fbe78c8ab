package usecase

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	adapter "matchchat/internal/adapter/repository"
	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/internal/infrastructure/cache"
	"matchchat/internal/infrastructure/ratelimit"
)

const (
	tournamentID = int64(7)

	liveMatch      = int64(42)
	teamMatch      = int64(43)
	futureMatch    = int64(44)
	unscheduled    = int64(45)
	drawnMatch     = int64(46)
	otherTourMatch = int64(50)

	alice     = int64(1)
	bob       = int64(2)
	spectator = int64(3)
	nameless  = int64(4)
)

var testNow = time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC)

type chatFixture struct {
	clock       *clock.Mock
	meta        *adapter.FixtureRepository
	store       repository.MessageRepository
	cache       *cache.EligibilityCache
	eligibility *EligibilityUseCase
	reaper      *ReaperUseCase
	chat        *ChatUseCase
}

func testMatches() []*entity.Match {
	return []*entity.Match{
		{
			ID:           liveMatch,
			TournamentID: tournamentID,
			Schedule:     entity.Schedule{Original: testNow.Add(-30 * time.Minute).Unix()},
			HomePlayers:  []int64{alice},
			AwayPlayers:  []int64{bob, nameless},
		},
		{
			ID:           teamMatch,
			TournamentID: tournamentID,
			Schedule:     entity.Schedule{Original: testNow.Add(-time.Hour).Format("2006-01-02 15:04:05")},
			HomeTeam:     100,
			AwayTeam:     200,
		},
		{
			ID:           futureMatch,
			TournamentID: tournamentID,
			Schedule:     entity.Schedule{Updated: testNow.Add(time.Hour).Unix()},
			HomePlayers:  []int64{alice},
			AwayPlayers:  []int64{bob},
		},
		{
			ID:           unscheduled,
			TournamentID: tournamentID,
			HomePlayers:  []int64{alice},
			AwayPlayers:  []int64{bob},
		},
		{
			ID:           drawnMatch,
			TournamentID: tournamentID,
			Schedule:     entity.Schedule{Original: testNow.Add(-2 * time.Hour).Unix()},
			HomeScore:    "0",
			AwayScore:    "0",
			HomePlayers:  []int64{alice},
			AwayPlayers:  []int64{bob},
		},
		{
			ID:           otherTourMatch,
			TournamentID: 8,
			Schedule:     entity.Schedule{Original: testNow.Add(-time.Minute).Unix()},
			HomePlayers:  []int64{alice},
			AwayPlayers:  []int64{bob},
		},
	}
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	mock := clock.NewMock()
	mock.Set(testNow)

	meta := adapter.NewFixtureRepository(&adapter.Fixture{
		Matches: testMatches(),
		Teams: []*entity.Team{
			{ID: 100, Captains: []int64{10}, Members: []int64{11}},
			{ID: 200, Captains: []int64{20}, Members: []int64{21}},
		},
		Users: []*entity.User{
			{ID: alice, DisplayName: "Alice"},
			{ID: bob, DisplayName: "Bob"},
		},
	})

	store := adapter.NewMemoryMessageRepository(mock)
	limiter := ratelimit.NewMemoryLimiter(mock)
	t.Cleanup(limiter.Stop)

	eligibilityCache := cache.NewEligibilityCache(mock, 30*time.Second)
	eligibility := NewEligibilityUseCase(meta, eligibilityCache, mock, time.Second)
	reaper := NewReaperUseCase(store, eligibilityCache, mock, time.Hour)
	chat := NewChatUseCase(store, meta, meta, eligibility, reaper, limiter, mock, ChatConfig{
		MessageTTL:      6 * time.Hour,
		PollInterval:    4 * time.Second,
		MetadataTimeout: time.Second,
	})

	return &chatFixture{
		clock:       mock,
		meta:        meta,
		store:       store,
		cache:       eligibilityCache,
		eligibility: eligibility,
		reaper:      reaper,
		chat:        chat,
	}
}
