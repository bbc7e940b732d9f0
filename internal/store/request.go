package store

import (
	"context"
	"sort"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

// requestStore serves deposit, withdrawal, payment and loan applications,
// laid out as {Root}/{Section}/{memberId}/{txId}.
type requestStore struct {
	ledger
}

func NewRequestStore(client *db.Client) *requestStore {
	return &requestStore{ledger: ledger{client: client}}
}

func (s *requestStore) ListApplications(ctx context.Context, kind models.RequestKind, status string) ([]models.Application, error) {
	all, err := listNested[models.Application](ctx, s.client.NewRef(requestSection(kind, status)))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list applications", err)
	}
	var out []models.Application
	for memberID, txs := range all {
		for txID, app := range txs {
			out = append(out, normalizeApplication(app, kind, memberID, txID))
		}
	}
	sortApplications(out)
	return out, nil
}

func (s *requestStore) ListMemberApplications(ctx context.Context, kind models.RequestKind, status, memberID string) ([]models.Application, error) {
	ref := s.client.NewRef(requestSection(kind, status)).Child(memberID)
	all, err := listChildren[models.Application](ctx, ref)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list applications", err)
	}
	out := make([]models.Application, 0, len(all))
	for txID, app := range all {
		out = append(out, normalizeApplication(app, kind, memberID, txID))
	}
	sortApplications(out)
	return out, nil
}

func (s *requestStore) GetApplication(ctx context.Context, kind models.RequestKind, status, memberID, txID string) (*models.Application, error) {
	var app models.Application
	found, err := getNode(ctx, s.client.NewRef(applicationPath(kind, status, memberID, txID)), &app)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read application", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("application not found")
	}
	app = normalizeApplication(app, kind, memberID, txID)
	return &app, nil
}

func (s *requestStore) SubmitApplication(ctx context.Context, app models.Application) error {
	ref := s.client.NewRef(applicationPath(app.Kind, models.StatusPending, app.MemberID, app.TransactionID))
	if err := ref.Set(ctx, app); err != nil {
		return errs.NewDatabaseError("create", "failed to submit application", err)
	}
	return nil
}

func normalizeApplication(app models.Application, kind models.RequestKind, memberID, txID string) models.Application {
	app.Kind = kind
	app.MemberID = memberID
	app.TransactionID = txID
	return app
}

// newest first
func sortApplications(apps []models.Application) {
	sort.Slice(apps, func(i, j int) bool { return apps[i].DateApplied.After(apps[j].DateApplied) })
}
