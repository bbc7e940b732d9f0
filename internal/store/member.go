package store

import (
	"context"
	"time"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

type memberStore struct {
	ledger
}

func NewMemberStore(client *db.Client) *memberStore {
	return &memberStore{ledger: ledger{client: client}}
}

func (s *memberStore) GetMember(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	found, err := getNode(ctx, s.client.NewRef(memberPath(id)), &m)
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to read member", err)
	}
	if !found {
		return nil, errs.NewNotFoundError("member not found")
	}
	m.ID = id
	return &m, nil
}

func (s *memberStore) ListMembers(ctx context.Context) ([]models.Member, error) {
	all, err := listChildren[models.Member](ctx, s.client.NewRef(pathMembers))
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list members", err)
	}
	out := make([]models.Member, 0, len(all))
	for _, id := range sortedKeys(all) {
		m := all[id]
		m.ID = id
		out = append(out, m)
	}
	return out, nil
}

// CreateMember assigns the next sequential id and writes the record.
func (s *memberStore) CreateMember(ctx context.Context, m models.Member) (*models.Member, error) {
	id, err := nextID(ctx, s.client, counterMembers)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.client.NewRef(memberPath(id)).Set(ctx, m); err != nil {
		return nil, errs.NewDatabaseError("create", "failed to create member", err)
	}
	return &m, nil
}

// AllocateMemberID reserves an id for flows that write the member as part
// of a larger batch.
func (s *memberStore) AllocateMemberID(ctx context.Context) (string, error) {
	return nextID(ctx, s.client, counterMembers)
}

// UpdateMember merges fields (JSON names) into an existing member.
func (s *memberStore) UpdateMember(ctx context.Context, id string, fields map[string]any) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	fields["updatedAt"] = time.Now().UTC()
	if err := s.client.NewRef(memberPath(id)).Update(ctx, fields); err != nil {
		return errs.NewDatabaseError("update", "failed to update member", err)
	}
	return nil
}
