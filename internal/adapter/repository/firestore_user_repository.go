package repository

import (
	"context"
	"strconv"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"matchchat/internal/domain/entity"
	"matchchat/internal/domain/repository"
	"matchchat/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetDisplayName(ctx context.Context, userID int64) (string, error) {
	doc, err := r.client.Collection("users").Doc(strconv.FormatInt(userID, 10)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", errors.NotFound("User", err)
		}
		return "", errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return "", errors.Internal("Failed to parse user data", err)
	}
	return user.DisplayName, nil
}
