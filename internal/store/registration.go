package store

import (
	"context"
	"sort"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type registrationStore struct {
	ledger
}

func NewRegistrationStore(client *db.Client) *registrationStore {
	return &registrationStore{ledger: ledger{client: client}}
}

func (s *registrationStore) ListRegistrations(ctx context.Context, status string) ([]models.Registration, error) {
	ref := s.client.NewRef(pathRegistrations).Child(registrationSections[statusIndex(status)])
	all, err := listChildren[models.Registration](ctx, ref)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list registrations", err)
	}
	out := make([]models.Registration, 0, len(all))
	for id, r := range all {
		r.ID = id
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateApplied.Before(out[j].DateApplied) })
	return out, nil
}

func (s *registrationStore) GetRegistration(ctx context.Context, status, id string) (*models.Registration, error) {
	var r models.Registration
	found, err := getNode(ctx, s.client.NewRef(registrationPath(status, id)), &r)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read registration", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("registration not found")
	}
	r.ID = id
	return &r, nil
}

// SubmitRegistration pushes a new pending application and returns it
// with its generated key.
func (s *registrationStore) SubmitRegistration(ctx context.Context, r models.Registration) (*models.Registration, error) {
	r.Status = models.StatusPending
	ref, err := s.client.NewRef(pathRegistrations).Child(registrationSections[0]).Push(ctx, r)
	if err != nil {
		return nil, errs.NewDatabaseError("create", "failed to create registration", err)
	}
	r.ID = ref.Key
	return &r, nil
}
