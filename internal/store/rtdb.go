package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"firebase.google.com/go/v4/db"

	"github.com/GregMSThompson/coop-backend/internal/errs"
)

// ledger applies multi-path updates at the database root. Every key is a
// slash separated path; a nil value deletes the node.
type ledger struct {
	client *db.Client
}

func (l ledger) Apply(ctx context.Context, b *Batch) error {
	if b == nil || b.Len() == 0 {
		return nil
	}
	if err := l.client.NewRef("/").Update(ctx, b.Updates()); err != nil {
		return errs.NewDatabaseError("update", "failed to apply changes", err)
	}
	return nil
}

// getRaw reads a node as raw JSON. found is false for a missing node.
func getRaw(ctx context.Context, ref *db.Ref) (json.RawMessage, bool, error) {
	var raw json.RawMessage
	if err := ref.Get(ctx, &raw); err != nil {
		return nil, false, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false, nil
	}
	return raw, true, nil
}

// getNode decodes a single record. found is false for a missing node.
func getNode(ctx context.Context, ref *db.Ref, v any) (bool, error) {
	raw, found, err := getRaw(ctx, ref)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, err
	}
	return true, nil
}

// decodeChildren decodes the children of a node keyed by their key. The
// database returns nodes whose keys are small integers as JSON arrays with
// null holes, so both shapes are accepted.
func decodeChildren[T any](raw json.RawMessage) (map[string]T, error) {
	out := map[string]T{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	if raw[0] == '[' {
		var items []*T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		for i, item := range items {
			if item != nil {
				out[strconv.Itoa(i)] = *item
			}
		}
		return out, nil
	}

	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeNested decodes a two level {parent}/{child} tree, used for the
// per-member request and loan lists.
func decodeNested[T any](raw json.RawMessage) (map[string]map[string]T, error) {
	outer, err := decodeChildren[json.RawMessage](raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]T, len(outer))
	for key, child := range outer {
		inner, err := decodeChildren[T](child)
		if err != nil {
			return nil, err
		}
		out[key] = inner
	}
	return out, nil
}

func listChildren[T any](ctx context.Context, ref *db.Ref) (map[string]T, error) {
	raw, _, err := getRaw(ctx, ref)
	if err != nil {
		return nil, err
	}
	return decodeChildren[T](raw)
}

func listNested[T any](ctx context.Context, ref *db.Ref) (map[string]map[string]T, error) {
	raw, _, err := getRaw(ctx, ref)
	if err != nil {
		return nil, err
	}
	return decodeNested[T](raw)
}

// sortedKeys orders numeric keys numerically and everything else lexically
// after them.
func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// nextID increments Counters/{name} in a transaction and returns the new
// value.
func nextID(ctx context.Context, client *db.Client, name string) (string, error) {
	var next int64
	err := client.NewRef(pathCounters).Child(name).Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var current int64
		if err := tn.Unmarshal(&current); err != nil {
			return nil, err
		}
		next = current + 1
		return next, nil
	})
	if err != nil {
		return "", errs.NewDatabaseError("transaction", "failed to allocate id", err)
	}
	return strconv.FormatInt(next, 10), nil
}
