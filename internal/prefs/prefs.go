// Package prefs keeps the process-wide preference flags. They are not
// scoped to an account; they belong to the device running the app.
package prefs

import (
	"context"
	"fmt"

	"github.com/dominh-hy/TaxViet/internal/core"
	"github.com/dominh-hy/TaxViet/internal/storage"
)

const (
	KeyThemeMode     = "theme-mode"
	KeyLanguage      = "app-language"
	KeyNotifications = "notifications-enabled"
	KeyFaceID        = "faceid-enabled"
)

var allowed = map[string]map[string]bool{
	KeyThemeMode:     {"light": true, "dark": true, "system": true},
	KeyLanguage:      {"vi": true, "en": true},
	KeyNotifications: {"true": true, "false": true},
	KeyFaceID:        {"true": true, "false": true},
}

var defaults = map[string]string{
	KeyThemeMode:     "system",
	KeyLanguage:      "vi",
	KeyNotifications: "false",
	KeyFaceID:        "false",
}

type Preferences struct {
	store storage.Store
}

func New(store storage.Store) *Preferences {
	return &Preferences{store: store}
}

// Get returns a preference value, falling back to its default when
// never set. Unknown names fail with core.ErrInvalidInput.
func (p *Preferences) Get(ctx context.Context, name string) (string, error) {
	def, ok := defaults[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown preference %q", core.ErrInvalidInput, name)
	}

	var value string
	found, err := p.store.Get(ctx, storage.KindPreference, name, &value)
	if err != nil {
		return "", fmt.Errorf("load preference %s: %w", name, err)
	}
	if !found {
		return def, nil
	}
	return value, nil
}

// Set validates and persists a preference value.
func (p *Preferences) Set(ctx context.Context, name, value string) error {
	values, ok := allowed[name]
	if !ok {
		return fmt.Errorf("%w: unknown preference %q", core.ErrInvalidInput, name)
	}
	if !values[value] {
		return fmt.Errorf("%w: value %q not allowed for %s", core.ErrInvalidInput, value, name)
	}

	if err := p.store.Put(ctx, storage.KindPreference, name, value); err != nil {
		return fmt.Errorf("save preference %s: %w", name, err)
	}
	return nil
}

// NotificationsEnabled reports the notifications flag as a bool.
func (p *Preferences) NotificationsEnabled(ctx context.Context) bool {
	v, err := p.Get(ctx, KeyNotifications)
	return err == nil && v == "true"
}
