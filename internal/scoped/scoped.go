// Package scoped namespaces profile and record collections per account.
// All reads and writes go through the storage layer's (kind, owner)
// addressing, so one account can never see another's data.
package scoped

import (
	"context"
	"fmt"

	"github.com/dominh-hy/TaxViet/internal/accounts"
	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/storage"
)

type Store struct {
	store    storage.Store
	accounts *accounts.Directory
}

func New(store storage.Store, dir *accounts.Directory) *Store {
	return &Store{store: store, accounts: dir}
}

// Profile returns the persisted profile for the identifier, or a
// synthesized default carrying the account's full name. The default is
// not persisted; that happens on the first explicit SetProfile.
func (s *Store) Profile(ctx context.Context, identifier string) (core.Profile, error) {
	norm := core.NormalizeIdentifier(identifier)

	var profile core.Profile
	found, err := s.store.Get(ctx, storage.KindProfile, norm, &profile)
	if err != nil {
		return core.Profile{}, fmt.Errorf("load profile: %w", err)
	}
	if found {
		return profile, nil
	}

	displayName := "Người dùng"
	if account, err := s.accounts.Find(ctx, norm); err == nil {
		displayName = account.FullName
	}
	return core.DefaultProfile(displayName), nil
}

// SetProfile validates, replaces, and persists the profile.
func (s *Store) SetProfile(ctx context.Context, identifier string, profile core.Profile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}
	norm := core.NormalizeIdentifier(identifier)
	if err := s.store.Put(ctx, storage.KindProfile, norm, profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Records returns the account's history, newest first. Missing entry
// means an empty history.
func (s *Store) Records(ctx context.Context, identifier string) ([]core.TaxRecord, error) {
	norm := core.NormalizeIdentifier(identifier)

	var records []core.TaxRecord
	if _, err := s.store.Get(ctx, storage.KindRecords, norm, &records); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// SetRecords replaces and persists the full record collection.
func (s *Store) SetRecords(ctx context.Context, identifier string, records []core.TaxRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: record %d: %v", core.ErrInvalidInput, i, err)
		}
	}
	norm := core.NormalizeIdentifier(identifier)
	if err := s.store.Put(ctx, storage.KindRecords, norm, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}
