package repository

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"matchchat/internal/domain/repository"
)

// Runs against the Firestore emulator only.
func TestFirestoreMessageRepository(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "matchchat-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	runMessageRepositoryContract(t, func(t *testing.T, clk clock.Clock) repository.MessageRepository {
		suffix := uuid.New().String()
		return &firestoreMessageRepository{
			client:     client,
			clock:      clk,
			collection: messagesCollection + "_" + suffix,
			counter:    messageCounterDoc + "_" + suffix,
		}
	})
}
