package repository

import (
	"context"
	"time"

	"matchchat/internal/domain/entity"
)

// MatchRepository is the read-only view of tournament match metadata.
// Unknown matches yield a NOT_FOUND AppError.
type MatchRepository interface {
	GetStartTime(ctx context.Context, matchID int64) (time.Time, error)
	IsResultEntered(ctx context.Context, matchID int64) (bool, error)
	GetTournamentID(ctx context.Context, matchID int64) (int64, error)
	GetParticipants(ctx context.Context, matchID int64) (*entity.Roster, error)
	GetTeamMembers(ctx context.Context, teamID int64) ([]int64, error)
	ListByTournament(ctx context.Context, tournamentID int64) ([]int64, error)
}
