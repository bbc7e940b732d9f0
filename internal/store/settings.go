package store

import (
	"context"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type settingsStore struct {
	ledger
}

func NewSettingsStore(client *db.Client) *settingsStore {
	return &settingsStore{ledger: ledger{client: client}}
}

// GetSettings returns zero-valued settings on a fresh database.
func (s *settingsStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	if _, err := getNode(ctx, s.client.NewRef(pathSettings), &st); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read settings", err)
	}
	return &st, nil
}

// UpdateSettings merges top-level keys into Settings.
func (s *settingsStore) UpdateSettings(ctx context.Context, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.client.NewRef(pathSettings).Update(ctx, fields); err != nil {
		return errs.NewDatabaseError("update", "failed to update settings", err)
	}
	return nil
}
