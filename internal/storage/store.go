// Package storage persists all application state as a keyed blob store:
// every entry is addressed by an entity kind plus an owner (the
// normalized account identifier, or empty for process-wide entries).
// Per-account partitioning is enforced here, in one place, instead of
// by key-concatenation convention at call sites.
package storage

import "context"

// Entry kinds. Owner semantics per kind:
// accounts and session are process-wide (owner ""), profile and
// records are owned by a normalized account identifier, preference is
// owned by the preference name.
const (
	KindAccounts   = "registered-users"
	KindSession    = "last-session-user"
	KindProfile    = "user-profile"
	KindRecords    = "tax-records"
	KindPreference = "app-preference"
)

// Store is the single access path to persisted state. Values are
// JSON-serialized; Get reports whether the entry existed.
type Store interface {
	Get(ctx context.Context, kind, owner string, v any) (bool, error)
	Put(ctx context.Context, kind, owner string, v any) error
	Delete(ctx context.Context, kind, owner string) error
	Close() error
}
