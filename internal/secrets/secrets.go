// Package secrets reads deployment secrets from Secret Manager.
package secrets

import (
	"context"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

// Secrets path
// projects/{project}/secrets/{secretID}/versions/latest

type secretStore struct {
	client    *secretmanager.Client
	projectID string
}

func New(client *secretmanager.Client, projectID string) *secretStore {
	return &secretStore{client: client, projectID: projectID}
}

func (s *secretStore) secretName(secretID string) string {
	if strings.HasPrefix(secretID, "projects/") {
		return secretID
	}
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, secretID)
}

// Latest returns the payload of the latest enabled version of secretID,
// which may be a bare id or a full resource name.
func (s *secretStore) Latest(ctx context.Context, secretID string) (string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName(secretID)),
	})
	if status.Code(err) == codes.NotFound {
		return "", errs.NewNotFoundError("secret " + secretID + " not found")
	}
	if err != nil {
		return "", errs.NewExternalServiceError("secretmanager", "failed to access secret", isTransient(err), err)
	}
	return strings.TrimSpace(string(res.Payload.Data)), nil
}

func isTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	}
	return false
}
