package repository

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/pkg/errors"
)

type firestoreMatchRepository struct {
	client *firestore.Client
}

// NewFirestoreMatchRepository reads matches and teams written by the
// tournament service. Documents are keyed by their numeric id.
func NewFirestoreMatchRepository(client *firestore.Client) repository.MatchRepository {
	return &firestoreMatchRepository{
		client: client,
	}
}

func (r *firestoreMatchRepository) getMatch(ctx context.Context, matchID int64) (*entity.Match, error) {
	doc, err := r.client.Collection("matches").Doc(strconv.FormatInt(matchID, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Match", err)
		}
		return nil, errors.Internal("Failed to get match", err)
	}

	var match entity.Match
	if err := doc.DataTo(&match); err != nil {
		return nil, errors.Internal("Failed to parse match data", err)
	}
	if match.ID == 0 {
		match.ID = matchID
	}
	return &match, nil
}

func (r *firestoreMatchRepository) GetStartTime(ctx context.Context, matchID int64) (time.Time, error) {
	match, err := r.getMatch(ctx, matchID)
	if err != nil {
		return time.Time{}, err
	}
	return match.StartTime(), nil
}

func (r *firestoreMatchRepository) IsResultEntered(ctx context.Context, matchID int64) (bool, error) {
	match, err := r.getMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	return match.ResultEntered(), nil
}

func (r *firestoreMatchRepository) GetTournamentID(ctx context.Context, matchID int64) (int64, error) {
	match, err := r.getMatch(ctx, matchID)
	if err != nil {
		return 0, err
	}
	return match.TournamentID, nil
}

func (r *firestoreMatchRepository) GetParticipants(ctx context.Context, matchID int64) (*entity.Roster, error) {
	match, err := r.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return match.Roster(), nil
}

func (r *firestoreMatchRepository) GetTeamMembers(ctx context.Context, teamID int64) ([]int64, error) {
	doc, err := r.client.Collection("teams").Doc(strconv.FormatInt(teamID, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Team", err)
		}
		return nil, errors.Internal("Failed to get team", err)
	}

	var team entity.Team
	if err := doc.DataTo(&team); err != nil {
		return nil, errors.Internal("Failed to parse team data", err)
	}
	return team.UserIDs(), nil
}

func (r *firestoreMatchRepository) ListByTournament(ctx context.Context, tournamentID int64) ([]int64, error) {
	iter := r.client.Collection("matches").Where("tournamentId", "==", tournamentID).Documents(ctx)
	defer iter.Stop()

	var ids []int64
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to list tournament matches", err)
		}

		id, err := strconv.ParseInt(doc.Ref.ID, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
