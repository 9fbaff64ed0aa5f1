// Package accounts is the directory of registered accounts.
package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/storage"
)

// Directory stores accounts as one JSON array under a single entry,
// rewritten in full on every mutation.
type Directory struct {
	store storage.Store
}

func NewDirectory(store storage.Store) *Directory {
	return &Directory{store: store}
}

// Register creates a new account. Secrets are stored as bcrypt hashes,
// never as the supplied value. Fails with core.ErrDuplicateAccount when
// the normalized identifier is already taken, leaving the directory
// unchanged.
func (d *Directory) Register(ctx context.Context, identifier, fullName, secret string) (core.Account, error) {
	norm := core.NormalizeIdentifier(identifier)
	if norm == "" {
		return core.Account{}, fmt.Errorf("%w: empty identifier", core.ErrInvalidInput)
	}
	if strings.TrimSpace(fullName) == "" {
		return core.Account{}, fmt.Errorf("%w: empty full name", core.ErrInvalidInput)
	}
	if secret == "" {
		return core.Account{}, fmt.Errorf("%w: empty secret", core.ErrInvalidInput)
	}

	all, err := d.load(ctx)
	if err != nil {
		return core.Account{}, err
	}
	for _, a := range all {
		if a.Identifier == norm {
			return core.Account{}, fmt.Errorf("%w: %s", core.ErrDuplicateAccount, norm)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash secret: %w", err)
	}

	account := core.Account{
		Identifier: norm,
		FullName:   strings.TrimSpace(fullName),
		SecretHash: string(hash),
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, fmt.Errorf("%w: %v", core.ErrInvalidInput, err)
	}

	all = append(all, account)
	if err := d.save(ctx, all); err != nil {
		return core.Account{}, err
	}

	slog.InfoContext(ctx, "Account registered", "identifier", norm)
	return account, nil
}

// Find looks an account up by identifier, case-insensitively.
func (d *Directory) Find(ctx context.Context, identifier string) (core.Account, error) {
	norm := core.NormalizeIdentifier(identifier)

	all, err := d.load(ctx)
	if err != nil {
		return core.Account{}, err
	}
	for _, a := range all {
		if a.Identifier == norm {
			return a, nil
		}
	}
	return core.Account{}, fmt.Errorf("%w: %s", core.ErrAccountNotFound, norm)
}

// Verify checks a secret against the stored hash. It returns
// core.ErrAccountNotFound for unknown identifiers and
// core.ErrInvalidCredentials on mismatch.
func (d *Directory) Verify(ctx context.Context, identifier, secret string) error {
	account, err := d.Find(ctx, identifier)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(secret)); err != nil {
		return core.ErrInvalidCredentials
	}
	return nil
}

func (d *Directory) load(ctx context.Context) ([]core.Account, error) {
	var all []core.Account
	if _, err := d.store.Get(ctx, storage.KindAccounts, "", &all); err != nil {
		return nil, fmt.Errorf("load account directory: %w", err)
	}
	return all, nil
}

func (d *Directory) save(ctx context.Context, all []core.Account) error {
	if err := d.store.Put(ctx, storage.KindAccounts, "", all); err != nil {
		return fmt.Errorf("save account directory: %w", err)
	}
	return nil
}
