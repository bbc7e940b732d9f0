package store

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type adminStore struct {
	ledger
}

func NewAdminStore(client *db.Client) *adminStore {
	return &adminStore{ledger: ledger{client: client}}
}

func (s *adminStore) GetCoAdmin(ctx context.Context, id string) (*models.Admin, error) {
	var a models.Admin
	found, err := getNode(ctx, s.client.NewRef(coAdminPath(id)), &a)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read co-admin", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("co-admin not found")
	}
	a.ID = id
	return &a, nil
}

func (s *adminStore) ListCoAdmins(ctx context.Context) ([]models.Admin, error) {
	all, err := listChildren[models.Admin](ctx, s.client.NewRef(pathCoAdmins))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list co-admins", err)
	}
	out := make([]models.Admin, 0, len(all))
	for _, id := range sortedKeys(all) {
		a := all[id]
		a.ID = id
		out = append(out, a)
	}
	return out, nil
}

func (s *adminStore) CreateCoAdmin(ctx context.Context, a models.Admin) (*models.Admin, error) {
	id, err := nextID(ctx, s.client, counterCoAdmins)
	if err != nil {
		return nil, err
	}
	a.ID = id
	a.Role = models.RoleCoAdmin
	if err := s.client.NewRef(coAdminPath(id)).Set(ctx, a); err != nil {
		return nil, errs.NewDatabaseError("create", "failed to create co-admin", err)
	}
	return &a, nil
}

func (s *adminStore) UpdateCoAdmin(ctx context.Context, id string, fields map[string]any) error {
	if _, err := s.GetCoAdmin(ctx, id); err != nil {
		return err
	}
	fields["updatedAt"] = time.Now().UTC()
	if err := s.client.NewRef(coAdminPath(id)).Update(ctx, fields); err != nil {
		return errs.NewDatabaseError("update", "failed to update co-admin", err)
	}
	return nil
}

// FindByUID resolves a signed-in account to its admin or co-admin record.
// Admins are keyed by uid; co-admins are few enough to scan.
func (s *adminStore) FindByUID(ctx context.Context, uid string) (*models.Admin, error) {
	var a models.Admin
	found, err := getNode(ctx, s.client.NewRef(pathAdmins).Child(uid), &a)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read admin", err)
	}
	if found {
		a.ID = uid
		a.UID = uid
		a.Role = models.RoleAdmin
		return &a, nil
	}

	coadmins, err := s.ListCoAdmins(ctx)
	if err != nil {
		return nil, err
	}
	for i := range coadmins {
		if coadmins[i].UID == uid {
			return &coadmins[i], nil
		}
	}
	return nil, errs.NewNotFoundError("admin not found")
}
