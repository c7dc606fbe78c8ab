package repository

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
)

func TestMemoryMessageRepository(t *testing.T) {
	runMessageRepositoryContract(t, func(t *testing.T, clk clock.Clock) repository.MessageRepository {
		return NewMemoryMessageRepository(clk)
	})
}

func TestMemoryMessageRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryMessageRepository(newMockClock(time.Now()))
	appendBody(t, repo, 1, "original", time.Hour)

	msgs, err := repo.FetchSince(context.Background(), 1, entity.Cursor{}, 0)
	require.NoError(t, err)
	msgs[0].Body = "edited"

	again, err := repo.FetchSince(context.Background(), 1, entity.Cursor{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Body)
}

func TestMemoryMessageRepository_ClockSkewDoesNotBackdate(t *testing.T) {
	clk := newMockClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMemoryMessageRepository(clk)

	first := appendBody(t, repo, 1, "a", time.Hour)
	clk.Set(first.CreatedAt.Add(-time.Minute))
	second := appendBody(t, repo, 1, "b", time.Hour)

	assert.Greater(t, second.ID, first.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
}
