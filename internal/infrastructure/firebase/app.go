package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"matchchat/pkg/logger"
)

// Credentials picks the service account source. JSON wins over a file path;
// with neither, application default credentials (or the emulator) are used.
func Credentials(serviceAccountJSON, serviceAccountPath string) ([]option.ClientOption, error) {
	if serviceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(serviceAccountJSON))}, nil
	}
	if serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account file does not exist: %s", serviceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", serviceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(serviceAccountPath)}, nil
	}
	return nil, nil
}

func NewFirestoreClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

func NewAuthClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*auth.Client, error) {
	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}
	return client, nil
}
