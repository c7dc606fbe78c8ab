package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
)

type repoFactory func(t *testing.T, clk clock.Clock) repository.MessageRepository

func newMockClock(at time.Time) *clock.Mock {
	mock := clock.NewMock()
	mock.Set(at)
	return mock
}

func appendBody(t *testing.T, repo repository.MessageRepository, matchID int64, body string, ttl time.Duration) *entity.Message {
	t.Helper()
	m := &entity.Message{MatchID: matchID, TournamentID: 7, SenderID: 1, Side: entity.SideHome, Body: body}
	require.NoError(t, repo.Append(context.Background(), m, ttl))
	return m
}

func runMessageRepositoryContract(t *testing.T, newRepo repoFactory) {
	ctx := context.Background()
	start := time.Date(2025, 5, 1, 18, 0, 0, 0, time.UTC)

	t.Run("ids increase in insertion order", func(t *testing.T) {
		clk := newMockClock(start)
		repo := newRepo(t, clk)

		var prev *entity.Message
		for i := 0; i < 5; i++ {
			m := appendBody(t, repo, 42, "hi", 6*time.Hour)
			assert.True(t, m.ID > 0)
			assert.True(t, m.ExpiresAt.Equal(m.CreatedAt.Add(6*time.Hour)))
			if prev != nil {
				assert.Greater(t, m.ID, prev.ID)
				assert.False(t, m.CreatedAt.Before(prev.CreatedAt))
			}
			prev = m
			clk.Add(10 * time.Millisecond)
		}
	})

	t.Run("fetch excludes ids at or below the cursor", func(t *testing.T) {
		repo := newRepo(t, newMockClock(start))
		first := appendBody(t, repo, 42, "one", time.Hour)
		appendBody(t, repo, 42, "two", time.Hour)
		appendBody(t, repo, 42, "three", time.Hour)

		all, err := repo.FetchSince(ctx, 42, entity.Cursor{}, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "one", all[0].Body)
		assert.Equal(t, entity.SideHome, all[0].Side)

		rest, err := repo.FetchSince(ctx, 42, entity.Cursor{AfterID: first.ID}, 0)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		for _, m := range rest {
			assert.Greater(t, m.ID, first.ID)
		}

		none, err := repo.FetchSince(ctx, 42, entity.Cursor{AfterID: all[2].ID}, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("fetch is capped at the default limit", func(t *testing.T) {
		repo := newRepo(t, newMockClock(start))
		for i := 0; i < 250; i++ {
			appendBody(t, repo, 9, "spam", time.Hour)
		}

		page, err := repo.FetchSince(ctx, 9, entity.Cursor{}, 1000)
		require.NoError(t, err)
		require.Len(t, page, repository.DefaultFetchLimit)
		for i := 1; i < len(page); i++ {
			assert.Greater(t, page[i].ID, page[i-1].ID)
		}

		next, err := repo.FetchSince(ctx, 9, entity.Cursor{AfterID: page[len(page)-1].ID}, 0)
		require.NoError(t, err)
		assert.Len(t, next, 50)
	})

	t.Run("timestamp cursor filters on creation second", func(t *testing.T) {
		at := time.Unix(2_100_000_000, 0)
		clk := newMockClock(at)
		repo := newRepo(t, clk)

		appendBody(t, repo, 5, "before", time.Hour)
		clk.Add(2 * time.Second)
		appendBody(t, repo, 5, "after", time.Hour)

		msgs, err := repo.FetchSince(ctx, 5, entity.LegacyCursor(at.Unix()), 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "after", msgs[0].Body)
	})

	t.Run("channels are isolated by match", func(t *testing.T) {
		repo := newRepo(t, newMockClock(start))
		appendBody(t, repo, 1, "a", time.Hour)
		appendBody(t, repo, 2, "b", time.Hour)

		msgs, err := repo.FetchSince(ctx, 2, entity.Cursor{}, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "b", msgs[0].Body)
	})

	t.Run("delete by match is idempotent", func(t *testing.T) {
		repo := newRepo(t, newMockClock(start))
		appendBody(t, repo, 3, "x", time.Hour)
		appendBody(t, repo, 3, "y", time.Hour)
		appendBody(t, repo, 4, "z", time.Hour)

		n, err := repo.DeleteByMatch(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.DeleteByMatch(ctx, 3)
		require.NoError(t, err)
		assert.Zero(t, n)

		msgs, err := repo.FetchSince(ctx, 3, entity.Cursor{}, 0)
		require.NoError(t, err)
		assert.Empty(t, msgs)

		other, err := repo.FetchSince(ctx, 4, entity.Cursor{}, 0)
		require.NoError(t, err)
		assert.Len(t, other, 1)
	})

	t.Run("delete expired removes at the boundary", func(t *testing.T) {
		repo := newRepo(t, newMockClock(start))
		short := appendBody(t, repo, 8, "short", time.Hour)
		appendBody(t, repo, 8, "long", 3*time.Hour)

		n, err := repo.DeleteExpired(ctx, short.ExpiresAt)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		msgs, err := repo.FetchSince(ctx, 8, entity.Cursor{}, 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "long", msgs[0].Body)
	})

	t.Run("concurrent appends keep ids unique and ordered", func(t *testing.T) {
		clk := newMockClock(start)
		repo := newRepo(t, clk)

		const writers, perWriter = 20, 15
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					m := &entity.Message{MatchID: 77, SenderID: 2, Side: entity.SideAway, Body: "go"}
					assert.NoError(t, repo.Append(ctx, m, time.Hour))
					clk.Add(time.Millisecond)
				}
			}()
		}
		wg.Wait()

		var all []*entity.Message
		cursor := entity.Cursor{}
		for {
			page, err := repo.FetchSince(ctx, 77, cursor, 0)
			require.NoError(t, err)
			if len(page) == 0 {
				break
			}
			all = append(all, page...)
			cursor.AfterID = page[len(page)-1].ID
		}

		require.Len(t, all, writers*perWriter)
		for i := 1; i < len(all); i++ {
			assert.Greater(t, all[i].ID, all[i-1].ID)
			assert.False(t, all[i].CreatedAt.Before(all[i-1].CreatedAt))
		}
	})
}
