// Package services wires the core components into the single facade
// the HTTP layer talks to.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dominh-hy/TaxViet/internal/accounts"
	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/ledger"
	"github.com/dominh-hy/TaxViet/internal/notify"
	"github.com/dominh-hy/TaxViet/internal/prefs"
	"github.com/dominh-hy/TaxViet/internal/scoped"
	"github.com/dominh-hy/TaxViet/internal/session"
	"github.com/dominh-hy/TaxViet/internal/storage"
	"github.com/dominh-hy/TaxViet/internal/tax"
)

// Assistant is the boundary contract of the tax assistant: account
// lifecycle, the calculator, and the session-scoped history behind it.
type Assistant struct {
	accounts *accounts.Directory
	session  *session.Session
	scoped   *scoped.Store
	ledger   *ledger.Ledger
	prefs    *prefs.Preferences
	notifier *notify.Publisher // optional, may be nil
	store    storage.Store
}

// New builds an Assistant over the given store. notifier may be nil
// when no broker is configured.
func New(store storage.Store, notifier *notify.Publisher) *Assistant {
	dir := accounts.NewDirectory(store)
	scopedStore := scoped.New(store, dir)
	return &Assistant{
		accounts: dir,
		session:  session.New(store, dir),
		scoped:   scopedStore,
		ledger:   ledger.New(scopedStore),
		prefs:    prefs.New(store),
		notifier: notifier,
		store:    store,
	}
}

// Restore resumes the last persisted session, if any.
func (a *Assistant) Restore(ctx context.Context) (string, bool, error) {
	return a.session.Restore(ctx)
}

// Register creates an account and activates its session, mirroring the
// app's register-then-enter-dashboard flow.
func (a *Assistant) Register(ctx context.Context, identifier, fullName, secret string) (core.Account, error) {
	account, err := a.accounts.Register(ctx, identifier, fullName, secret)
	if err != nil {
		return core.Account{}, err
	}
	if err := a.session.Activate(ctx, account.Identifier); err != nil {
		return core.Account{}, err
	}
	return account, nil
}

func (a *Assistant) Login(ctx context.Context, identifier, secret string) (core.Account, error) {
	return a.session.Login(ctx, identifier, secret)
}

func (a *Assistant) Logout(ctx context.Context) error {
	return a.session.Logout(ctx)
}

// CurrentIdentifier returns the active account identifier.
func (a *Assistant) CurrentIdentifier() (string, bool) {
	return a.session.Current()
}

// Profile returns the active account's profile.
func (a *Assistant) Profile(ctx context.Context) (core.Profile, error) {
	identifier, err := a.requireSession()
	if err != nil {
		return core.Profile{}, err
	}
	return a.scoped.Profile(ctx, identifier)
}

// UpdateProfile replaces the active account's profile.
func (a *Assistant) UpdateProfile(ctx context.Context, profile core.Profile) (core.Profile, error) {
	identifier, err := a.requireSession()
	if err != nil {
		return core.Profile{}, err
	}
	if err := a.scoped.SetProfile(ctx, identifier, profile); err != nil {
		return core.Profile{}, err
	}
	return profile, nil
}

// ComputeTax runs the engine. It needs no session: the calculator is
// usable before saving anything.
func (a *Assistant) ComputeTax(_ context.Context, input tax.Input) (tax.Result, error) {
	return tax.Compute(input)
}

// SaveResult appends a computed result to the active account's history
// and, when the notifications preference is on and a broker is wired,
// publishes a record-saved event. Publish failures never fail the save.
func (a *Assistant) SaveResult(ctx context.Context, result tax.Result) (core.TaxRecord, error) {
	identifier, err := a.requireSession()
	if err != nil {
		return core.TaxRecord{}, err
	}

	record, err := a.ledger.AppendFromResult(ctx, identifier, result)
	if err != nil {
		return core.TaxRecord{}, err
	}

	a.publishRecordSaved(ctx, identifier, record)
	return record, nil
}

// Records returns the active account's history, newest first.
func (a *Assistant) Records(ctx context.Context) ([]core.TaxRecord, error) {
	identifier, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	return a.scoped.Records(ctx, identifier)
}

// DeleteRecord removes a record from the active account's history.
// Absent ids are tolerated.
func (a *Assistant) DeleteRecord(ctx context.Context, recordID string) error {
	identifier, err := a.requireSession()
	if err != nil {
		return err
	}
	return a.ledger.Remove(ctx, identifier, recordID)
}

// ToggleRecordStatus flips a record between paid and pending.
func (a *Assistant) ToggleRecordStatus(ctx context.Context, recordID string) error {
	identifier, err := a.requireSession()
	if err != nil {
		return err
	}
	return a.ledger.ToggleStatus(ctx, identifier, recordID)
}

func (a *Assistant) Preference(ctx context.Context, name string) (string, error) {
	return a.prefs.Get(ctx, name)
}

func (a *Assistant) SetPreference(ctx context.Context, name, value string) error {
	return a.prefs.Set(ctx, name, value)
}

func (a *Assistant) requireSession() (string, error) {
	identifier, ok := a.session.Current()
	if !ok {
		return "", core.ErrNoSession
	}
	return identifier, nil
}

func (a *Assistant) publishRecordSaved(ctx context.Context, identifier string, record core.TaxRecord) {
	if a.notifier == nil {
		return
	}
	if !a.prefs.NotificationsEnabled(ctx) {
		return
	}

	msg := notify.NewRecordSavedMessage(identifier, record.ID, record.Label, record.TaxAmount.String())
	if err := a.notifier.PublishRecordSaved(ctx, msg); err != nil {
		// The record is already persisted locally.
		slog.ErrorContext(ctx, "Failed to publish record saved message",
			"record_id", record.ID, "error", err)
	}
}

// Close releases the underlying store and broker connection.
func (a *Assistant) Close() error {
	var errs []error

	if a.notifier != nil {
		if err := a.notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close assistant: %v", errs)
	}
	return nil
}
