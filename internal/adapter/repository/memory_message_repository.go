package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
)

// memoryMessageRepository keeps every channel in process. A single write lock
// serializes id assignment and timestamping; reads share the lock.
type memoryMessageRepository struct {
	clock       clock.Clock
	mu          sync.RWMutex
	nextID      int64
	lastCreated time.Time
	byMatch     map[int64][]*entity.Message
}

func NewMemoryMessageRepository(clk clock.Clock) repository.MessageRepository {
	return &memoryMessageRepository{
		clock:   clk,
		byMatch: make(map[int64][]*entity.Message),
	}
}

func (r *memoryMessageRepository) Append(ctx context.Context, message *entity.Message, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if now.Before(r.lastCreated) {
		now = r.lastCreated
	}
	r.lastCreated = now
	r.nextID++

	message.ID = r.nextID
	message.CreatedAt = now
	message.ExpiresAt = now.Add(ttl)

	stored := *message
	r.byMatch[message.MatchID] = append(r.byMatch[message.MatchID], &stored)
	return nil
}

func (r *memoryMessageRepository) FetchSince(ctx context.Context, matchID int64, cursor entity.Cursor, limit int) ([]*entity.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > repository.DefaultFetchLimit {
		limit = repository.DefaultFetchLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	channel := r.byMatch[matchID]
	start := sort.Search(len(channel), func(i int) bool { return channel[i].ID > cursor.AfterID })

	messages := make([]*entity.Message, 0)
	for _, m := range channel[start:] {
		if len(messages) == limit {
			break
		}
		if !cursor.Includes(m) {
			continue
		}
		out := *m
		messages = append(messages, &out)
	}
	return messages, nil
}

func (r *memoryMessageRepository) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byMatch[matchID]))
	delete(r.byMatch, matchID)
	return n, nil
}

func (r *memoryMessageRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for matchID, channel := range r.byMatch {
		kept := channel[:0]
		for _, m := range channel {
			if m.ExpiresAt.After(now) {
				kept = append(kept, m)
				continue
			}
			removed++
		}
		if len(kept) == 0 {
			delete(r.byMatch, matchID)
			continue
		}
		r.byMatch[matchID] = kept
	}
	return removed, nil
}
