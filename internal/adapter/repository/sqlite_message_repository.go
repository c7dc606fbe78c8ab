package repository

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/pkg/errors"
)

type sqliteMessageRepository struct {
	db    *sql.DB
	clock clock.Clock

	// guards timestamping so AUTOINCREMENT order matches created_at order
	mu          sync.Mutex
	lastCreated time.Time
}

func NewSQLiteMessageRepository(db *sql.DB, clk clock.Clock) repository.MessageRepository {
	return &sqliteMessageRepository{
		db:    db,
		clock: clk,
	}
}

func (r *sqliteMessageRepository) Append(ctx context.Context, message *entity.Message, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.Before(r.lastCreated) {
		now = r.lastCreated
	}
	expires := now.Add(ttl)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO match_chat_messages (match_id, tournament_id, sender_id, side, body, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		message.MatchID, message.TournamentID, message.SenderID, string(message.Side), message.Body,
		now.UnixNano(), expires.UnixNano(),
	)
	if err != nil {
		return errors.StoreFailure("Could not save message", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.StoreFailure("Could not save message", err)
	}

	r.lastCreated = now
	message.ID = id
	message.CreatedAt = now
	message.ExpiresAt = expires
	return nil
}

func (r *sqliteMessageRepository) FetchSince(ctx context.Context, matchID int64, cursor entity.Cursor, limit int) ([]*entity.Message, error) {
	if limit <= 0 || limit > repository.DefaultFetchLimit {
		limit = repository.DefaultFetchLimit
	}

	query := `SELECT id, match_id, tournament_id, sender_id, side, body, created_at, expires_at
		FROM match_chat_messages WHERE match_id = ? AND id > ?`
	args := []interface{}{matchID, cursor.AfterID}
	if !cursor.AfterTime.IsZero() {
		// created second strictly after the cursor second
		query += ` AND created_at >= ?`
		args = append(args, time.Unix(cursor.AfterTime.Unix()+1, 0).UnixNano())
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.StoreFailure("Could not load messages", err)
	}
	defer rows.Close()

	messages := make([]*entity.Message, 0)
	for rows.Next() {
		var (
			m                  entity.Message
			side               string
			created, expiresAt int64
		)
		if err := rows.Scan(&m.ID, &m.MatchID, &m.TournamentID, &m.SenderID, &side, &m.Body, &created, &expiresAt); err != nil {
			return nil, errors.StoreFailure("Could not load messages", err)
		}
		m.Side = entity.Side(side)
		m.CreatedAt = time.Unix(0, created)
		m.ExpiresAt = time.Unix(0, expiresAt)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.StoreFailure("Could not load messages", err)
	}
	return messages, nil
}

func (r *sqliteMessageRepository) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM match_chat_messages WHERE match_id = ?`, matchID)
	if err != nil {
		return 0, errors.StoreFailure("Could not delete messages", err)
	}
	return res.RowsAffected()
}

func (r *sqliteMessageRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM match_chat_messages WHERE expires_at <= ?`, now.UnixNano())
	if err != nil {
		return 0, errors.StoreFailure("Could not delete expired messages", err)
	}
	return res.RowsAffected()
}
