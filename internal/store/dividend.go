package store

import (
	"context"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type dividendStore struct {
	ledger
}

func NewDividendStore(client *db.Client) *dividendStore {
	return &dividendStore{ledger: ledger{client: client}}
}

func (s *dividendStore) GetDividend(ctx context.Context, year int) (*models.DividendRecord, error) {
	var rec models.DividendRecord
	found, err := getNode(ctx, s.client.NewRef(dividendPath(year)), &rec)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read dividend record", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("no dividend distribution for that year")
	}
	return &rec, nil
}
