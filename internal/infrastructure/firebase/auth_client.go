package firebase

import (
	"context"
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/auth"
)

// UserIDClaim is the custom claim holding the numeric tournament user id.
const UserIDClaim = "user_id"

type FirebaseAuthClient struct {
	client *auth.Client
}

func NewFirebaseAuthClient(client *auth.Client) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client: client,
	}
}

// VerifyToken checks a Firebase ID token and returns the user id from its
// user_id claim, falling back to a numeric UID.
func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (int64, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return 0, err
	}

	if id := claimUserID(result.Claims[UserIDClaim]); id > 0 {
		return id, nil
	}
	if id, err := strconv.ParseInt(result.UID, 10, 64); err == nil && id > 0 {
		return id, nil
	}
	return 0, fmt.Errorf("token for %s carries no user id", result.UID)
}

func claimUserID(v interface{}) int64 {
	switch id := v.(type) {
	case float64:
		return int64(id)
	case int64:
		return id
	case string:
		n, _ := strconv.ParseInt(id, 10, 64)
		return n
	}
	return 0
}
