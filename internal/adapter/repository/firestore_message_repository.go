package repository

import (
	"context"
	"sort"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/benbjohnson/clock"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/pkg/errors"
)

const (
	messagesCollection = "match_chat_messages"
	countersCollection = "match_chat_counters"
	messageCounterDoc  = "messages"
)

// messageCounter is the single document every Append goes through. It hands
// out ids and remembers the last creation time so neither ever goes backwards.
type messageCounter struct {
	Value     int64     `firestore:"value"`
	CreatedAt time.Time `firestore:"createdAt"`
}

type firestoreMessageRepository struct {
	client     *firestore.Client
	clock      clock.Clock
	collection string
	counter    string
}

func NewFirestoreMessageRepository(client *firestore.Client, clk clock.Clock) repository.MessageRepository {
	return &firestoreMessageRepository{
		client:     client,
		clock:      clk,
		collection: messagesCollection,
		counter:    messageCounterDoc,
	}
}

func (r *firestoreMessageRepository) messages() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *firestoreMessageRepository) Append(ctx context.Context, message *entity.Message, ttl time.Duration) error {
	counterRef := r.client.Collection(countersCollection).Doc(r.counter)

	var stored entity.Message
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var counter messageCounter
		doc, err := tx.Get(counterRef)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return err
		default:
			if err := doc.DataTo(&counter); err != nil {
				return err
			}
		}

		now := r.clock.Now().UTC()
		if now.Before(counter.CreatedAt) {
			now = counter.CreatedAt
		}

		stored = *message
		stored.ID = counter.Value + 1
		stored.CreatedAt = now
		stored.ExpiresAt = now.Add(ttl)

		if err := tx.Set(counterRef, messageCounter{Value: stored.ID, CreatedAt: now}); err != nil {
			return err
		}
		return tx.Create(r.messages().Doc(strconv.FormatInt(stored.ID, 10)), &stored)
	})
	if err != nil {
		return errors.StoreFailure("Could not save message", err)
	}

	message.ID = stored.ID
	message.CreatedAt = stored.CreatedAt
	message.ExpiresAt = stored.ExpiresAt
	return nil
}

func (r *firestoreMessageRepository) FetchSince(ctx context.Context, matchID int64, cursor entity.Cursor, limit int) ([]*entity.Message, error) {
	if limit <= 0 || limit > repository.DefaultFetchLimit {
		limit = repository.DefaultFetchLimit
	}

	query := r.messages().Where("matchId", "==", matchID)
	if cursor.AfterTime.IsZero() {
		query = query.Where("id", ">", cursor.AfterID).OrderBy("id", firestore.Asc)
	} else {
		// creation order and id order agree, so ordering by time is enough
		query = query.
			Where("createdAt", ">=", time.Unix(cursor.AfterTime.Unix()+1, 0)).
			OrderBy("createdAt", firestore.Asc).
			OrderBy("id", firestore.Asc)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	messages := make([]*entity.Message, 0)
	for len(messages) < limit {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.StoreFailure("Could not load messages", err)
		}

		var m entity.Message
		if err := doc.DataTo(&m); err != nil {
			return nil, errors.StoreFailure("Could not parse message data", err)
		}
		if cursor.Includes(&m) {
			messages = append(messages, &m)
		}
	}

	sort.Slice(messages, func(i, j int) bool { return messages[i].ID < messages[j].ID })
	return messages, nil
}

func (r *firestoreMessageRepository) DeleteByMatch(ctx context.Context, matchID int64) (int64, error) {
	return r.deleteWhere(ctx, r.messages().Where("matchId", "==", matchID))
}

func (r *firestoreMessageRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(ctx, r.messages().Where("expiresAt", "<=", now.UTC()))
}

func (r *firestoreMessageRepository) deleteWhere(ctx context.Context, query firestore.Query) (int64, error) {
	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.StoreFailure("Could not list messages for deletion", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	writer := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := writer.Delete(doc.Ref)
		if err != nil {
			writer.End()
			return 0, errors.StoreFailure("Could not delete messages", err)
		}
		jobs = append(jobs, job)
	}
	writer.End()

	var deleted int64
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return deleted, errors.StoreFailure("Could not delete messages", err)
		}
		deleted++
	}
	return deleted, nil
}
