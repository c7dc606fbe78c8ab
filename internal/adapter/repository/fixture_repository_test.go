package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchchat/internal/domain/entity"
	"matchchat/pkg/errors"
)

const fixtureYAML = `
matches:
  - id: 42
    tournament_id: 7
    schedule:
      original: "2025-05-01 18:00:00"
      updated: 1746122400
    home_players: [10]
    away_players: [20]
  - id: 43
    tournament_id: 7
    schedule:
      home: "2025-05-02"
    home_team: 100
    away_team: 200
    home_score: 0
teams:
  - id: 100
    captains: [1]
    members: [1, 2]
  - id: 200
    captains: [3]
    members: [4]
users:
  - id: 10
    display_name: Alice
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))
	return path
}

func TestLoadFixtureRepository(t *testing.T) {
	repo, err := LoadFixtureRepository(writeFixture(t))
	require.NoError(t, err)
	ctx := context.Background()

	start, err := repo.GetStartTime(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1746122400), start.Unix(), "updated time wins over original")

	start, err = repo.GetStartTime(ctx, 43)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC).Unix(), start.Unix())

	entered, err := repo.IsResultEntered(ctx, 43)
	require.NoError(t, err)
	assert.True(t, entered, "a zero score is a result")

	entered, err = repo.IsResultEntered(ctx, 42)
	require.NoError(t, err)
	assert.False(t, entered)

	members, err := repo.GetTeamMembers(ctx, 100)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2}, members)

	ids, err := repo.ListByTournament(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []int64{42, 43}, ids)

	name, err := repo.GetDisplayName(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)
}

func TestFixtureRepository_UnknownEntities(t *testing.T) {
	repo := NewFixtureRepository(nil)
	ctx := context.Background()

	_, err := repo.GetTournamentID(ctx, 99)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.GetTeamMembers(ctx, 99)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	_, err = repo.GetDisplayName(ctx, 99)
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	assert.True(t, errors.Is(repo.ReportResult(99, 1, 0), errors.CodeNotFound))
}

func TestFixtureRepository_ReportResult(t *testing.T) {
	repo := NewFixtureRepository(&Fixture{Matches: []*entity.Match{{ID: 5, TournamentID: 1}}})
	ctx := context.Background()

	entered, err := repo.IsResultEntered(ctx, 5)
	require.NoError(t, err)
	require.False(t, entered)

	require.NoError(t, repo.ReportResult(5, "2", "1"))

	entered, err = repo.IsResultEntered(ctx, 5)
	require.NoError(t, err)
	assert.True(t, entered)
}

func TestLoadFixtureRepository_MissingFile(t *testing.T) {
	_, err := LoadFixtureRepository(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
