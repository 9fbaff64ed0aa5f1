// Package session tracks the single active account for the process and
// persists it so a restart can resume the last session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dominh-hy/TaxViet/internal/accounts"
	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/storage"
)

type Session struct {
	store    storage.Store
	accounts *accounts.Directory

	mu     sync.Mutex
	active string
}

func New(store storage.Store, dir *accounts.Directory) *Session {
	return &Session{store: store, accounts: dir}
}

// Restore loads the persisted last-session pointer, if any. It is a
// resume hint only: credentials are not re-checked, but a pointer to an
// identifier no longer present in the directory is discarded.
func (s *Session) Restore(ctx context.Context) (string, bool, error) {
	var identifier string
	found, err := s.store.Get(ctx, storage.KindSession, "", &identifier)
	if err != nil {
		return "", false, fmt.Errorf("restore session: %w", err)
	}
	if !found || identifier == "" {
		return "", false, nil
	}

	if _, err := s.accounts.Find(ctx, identifier); err != nil {
		slog.WarnContext(ctx, "Discarding stale session pointer", "identifier", identifier)
		if err := s.store.Delete(ctx, storage.KindSession, ""); err != nil {
			return "", false, fmt.Errorf("clear stale session: %w", err)
		}
		return "", false, nil
	}

	s.mu.Lock()
	s.active = identifier
	s.mu.Unlock()

	slog.InfoContext(ctx, "Session restored", "identifier", identifier)
	return identifier, true, nil
}

// Login authenticates and activates an account. An empty secret skips
// verification and resumes by identifier alone (the FaceID path on the
// client); a supplied secret must match.
func (s *Session) Login(ctx context.Context, identifier, secret string) (core.Account, error) {
	account, err := s.accounts.Find(ctx, identifier)
	if err != nil {
		return core.Account{}, err
	}
	if secret != "" {
		if err := s.accounts.Verify(ctx, identifier, secret); err != nil {
			return core.Account{}, err
		}
	}

	if err := s.activate(ctx, account.Identifier); err != nil {
		return core.Account{}, err
	}
	slog.InfoContext(ctx, "Login", "identifier", account.Identifier)
	return account, nil
}

// Activate starts a session for an identifier that was just registered.
func (s *Session) Activate(ctx context.Context, identifier string) error {
	return s.activate(ctx, core.NormalizeIdentifier(identifier))
}

func (s *Session) activate(ctx context.Context, norm string) error {
	if err := s.store.Put(ctx, storage.KindSession, "", norm); err != nil {
		return fmt.Errorf("persist session pointer: %w", err)
	}
	s.mu.Lock()
	s.active = norm
	s.mu.Unlock()
	return nil
}

// Logout clears the active identifier and the persisted pointer.
// Scoped data for the account stays on disk untouched.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KindSession, ""); err != nil {
		return fmt.Errorf("clear session pointer: %w", err)
	}

	s.mu.Lock()
	was := s.active
	s.active = ""
	s.mu.Unlock()

	if was != "" {
		slog.InfoContext(ctx, "Logout", "identifier", was)
	}
	return nil
}

// Current returns the active identifier, if any.
func (s *Session) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active != ""
}
