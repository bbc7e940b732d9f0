package secrets

import (
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestSecretName(t *testing.T) {
	s := &secretStore{projectID: "coop-prod"}

	if got := s.secretName("sendgrid-api-key"); got != "projects/coop-prod/secrets/sendgrid-api-key" {
		t.Fatalf("unexpected name %q", got)
	}
	full := "projects/other/secrets/key"
	if got := s.secretName(full); got != full {
		t.Fatalf("expected full name kept, got %q", got)
	}
}

func TestIsTransient(t *testing.T) {
	if !isTransient(status.Error(codes.Unavailable, "down")) {
		t.Fatalf("expected unavailable to be transient")
	}
	if isTransient(status.Error(codes.PermissionDenied, "nope")) {
		t.Fatalf("expected permission denied to be permanent")
	}
	if isTransient(errors.New("plain")) {
		t.Fatalf("expected plain error to be permanent")
	}
}
