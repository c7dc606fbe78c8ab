package repository

import "context"

type UserRepository interface {
	GetDisplayName(ctx context.Context, userID int64) (string, error)
}
