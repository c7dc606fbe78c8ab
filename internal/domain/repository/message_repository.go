package repository

import (
	"context"
	"time"

	"matchchat/internal/domain/entity"
)

// DefaultFetchLimit caps a single FetchSince page.
const DefaultFetchLimit = 200

// MessageRepository is the append-only message log. Ids are assigned on
// insert and increase with CreatedAt; there is no update operation.
type MessageRepository interface {
	// Append stamps ID, CreatedAt and ExpiresAt (CreatedAt + ttl) on message and persists it.
	Append(ctx context.Context, message *entity.Message, ttl time.Duration) error
	// FetchSince returns messages of a match after cursor, ascending by id, at most limit.
	FetchSince(ctx context.Context, matchID int64, cursor entity.Cursor, limit int) ([]*entity.Message, error)
	// DeleteByMatch physically removes every message of a match. Deleting nothing is not an error.
	DeleteByMatch(ctx context.Context, matchID int64) (int64, error)
	// DeleteExpired removes every message with ExpiresAt <= now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
