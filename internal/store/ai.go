package store

import (
	"context"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/coop-backend/internal/errs"
	"github.com/GregMSThompson/coop-backend/internal/models"
)

// chatStore keeps the assistant's conversation history in Firestore, apart
// from the cooperative's ledger:
//
//	admins/{uid}/ai_sessions/{sessionID}            lastActiveAt, messages, expiresAt
//	admins/{uid}/ai_sessions/{sessionID}/messages   one doc per turn
//
// expiresAt backs the collection TTL policy on both levels.
type chatStore struct {
	client   *firestore.Client
	clockNow func() time.Time
}

func NewAIStore(client *firestore.Client) *chatStore {
	return &chatStore{client: client, clockNow: time.Now}
}

func (s *chatStore) session(uid, sessionID string) *firestore.DocumentRef {
	return s.client.Collection("admins").Doc(uid).Collection("ai_sessions").Doc(sessionID)
}

// SaveMessage appends a turn and bumps the session header in one batch.
func (s *chatStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.AIMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.clockNow()
	}

	session := s.session(uid, sessionID)
	header := map[string]any{
		"lastActiveAt": msg.CreatedAt,
		"messages":     firestore.Increment(1),
	}
	if !msg.ExpiresAt.IsZero() {
		header["expiresAt"] = msg.ExpiresAt
	}

	batch := s.client.Batch()
	batch.Create(session.Collection("messages").NewDoc(), msg)
	batch.Set(session, header, firestore.MergeAll)
	if _, err := batch.Commit(ctx); err != nil {
		return errs.NewDatabaseError("create", "failed to save AI message", err)
	}
	return nil
}

// ListMessages returns up to limit of the newest turns, oldest first.
// Expired turns are skipped; TTL deletion can lag by a day.
func (s *chatStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.AIMessage, error) {
	query := s.session(uid, sessionID).Collection("messages").OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	now := s.clockNow()
	var out []models.AIMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list AI messages", err)
		}
		var msg models.AIMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse AI message data", err)
		}
		if expired(msg, now) {
			continue
		}
		out = append(out, msg)
	}

	slices.Reverse(out)
	return out, nil
}

func expired(msg models.AIMessage, now time.Time) bool {
	return !msg.ExpiresAt.IsZero() && !msg.ExpiresAt.After(now)
}
