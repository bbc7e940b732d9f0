package bootstrap

import (
	"context"

	firebase "firebase.google.com/go/v4"
)

func InitFirebase(ctx context.Context, projectID, databaseURL string) (*firebase.App, error) {
	return firebase.NewApp(ctx, &firebase.Config{
		ProjectID:   projectID,
		DatabaseURL: databaseURL,
	})
}
