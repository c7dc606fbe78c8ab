package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"matchchat/internal/domain/entity"
	"matchchat/pkg/errors"
)

// Fixture is the YAML document a FixtureRepository is loaded from.
type Fixture struct {
	Matches []*entity.Match `yaml:"matches"`
	Teams   []*entity.Team  `yaml:"teams"`
	Users   []*entity.User  `yaml:"users"`
}

// FixtureRepository serves match metadata and display names from memory.
// It backs local development and tests; results can be reported at runtime.
type FixtureRepository struct {
	mu      sync.RWMutex
	matches map[int64]*entity.Match
	teams   map[int64]*entity.Team
	users   map[int64]string
}

func NewFixtureRepository(fixture *Fixture) *FixtureRepository {
	r := &FixtureRepository{
		matches: make(map[int64]*entity.Match),
		teams:   make(map[int64]*entity.Team),
		users:   make(map[int64]string),
	}
	if fixture == nil {
		return r
	}

	for _, m := range fixture.Matches {
		r.PutMatch(m)
	}
	for _, t := range fixture.Teams {
		r.PutTeam(t)
	}
	for _, u := range fixture.Users {
		r.PutUser(u)
	}
	return r
}

// LoadFixtureRepository reads a YAML fixture file.
func LoadFixtureRepository(path string) (*FixtureRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(raw, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewFixtureRepository(&fixture), nil
}

func (r *FixtureRepository) PutMatch(match *entity.Match) {
	if match == nil || match.ID <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *match
	r.matches[match.ID] = &copied
}

func (r *FixtureRepository) PutTeam(team *entity.Team) {
	if team == nil || team.ID <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *team
	r.teams[team.ID] = &copied
}

func (r *FixtureRepository) PutUser(user *entity.User) {
	if user == nil || user.ID <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user.DisplayName
}

// ReportResult records both scores for a match.
func (r *FixtureRepository) ReportResult(matchID int64, home, away interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, ok := r.matches[matchID]
	if !ok {
		return errors.NotFound("Match", nil)
	}
	match.HomeScore = home
	match.AwayScore = away
	return nil
}

func (r *FixtureRepository) match(matchID int64) (*entity.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	match, ok := r.matches[matchID]
	if !ok {
		return nil, errors.NotFound("Match", nil)
	}
	copied := *match
	return &copied, nil
}

func (r *FixtureRepository) GetStartTime(ctx context.Context, matchID int64) (time.Time, error) {
	match, err := r.match(matchID)
	if err != nil {
		return time.Time{}, err
	}
	return match.StartTime(), nil
}

func (r *FixtureRepository) IsResultEntered(ctx context.Context, matchID int64) (bool, error) {
	match, err := r.match(matchID)
	if err != nil {
		return false, err
	}
	return match.ResultEntered(), nil
}

func (r *FixtureRepository) GetTournamentID(ctx context.Context, matchID int64) (int64, error) {
	match, err := r.match(matchID)
	if err != nil {
		return 0, err
	}
	return match.TournamentID, nil
}

func (r *FixtureRepository) GetParticipants(ctx context.Context, matchID int64) (*entity.Roster, error) {
	match, err := r.match(matchID)
	if err != nil {
		return nil, err
	}
	return match.Roster(), nil
}

func (r *FixtureRepository) GetTeamMembers(ctx context.Context, teamID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return nil, errors.NotFound("Team", nil)
	}
	return team.UserIDs(), nil
}

func (r *FixtureRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []int64
	for id, m := range r.matches {
		if m.TournamentID == tournamentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *FixtureRepository) GetDisplayName(ctx context.Context, userID int64) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.users[userID]
	if !ok {
		return "", errors.NotFound("User", nil)
	}
	return name, nil
}
