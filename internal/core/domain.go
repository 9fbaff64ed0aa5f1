package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	StatusPaid    RecordStatus = "paid"
	StatusPending RecordStatus = "pending"
)

type (
	// RecordStatus is the payment state of a saved tax record.
	RecordStatus string

	// Account is a registered user. Identifier is an email or phone
	// number, normalized to lowercase before storage and comparison.
	Account struct {
		Identifier string `json:"identifier"`
		FullName   string `json:"full_name"`
		SecretHash string `json:"secret_hash"`
	}

	// Profile holds the per-account business profile used to prefill
	// the calculator.
	Profile struct {
		DisplayName        string          `json:"display_name"`
		TaxCode            string          `json:"tax_code"`
		BusinessType       string          `json:"business_type"`
		AvatarURL          string          `json:"avatar_url,omitempty"`
		BusinessCategoryID string          `json:"business_category_id"`
		VATRate            decimal.Decimal `json:"vat_rate"`
		PITRate            decimal.Decimal `json:"pit_rate"`
	}

	// TaxRecord is one saved estimation in a user's history.
	TaxRecord struct {
		ID        string          `json:"id"`
		Label     string          `json:"label"`
		Revenue   decimal.Decimal `json:"revenue"`
		TaxAmount decimal.Decimal `json:"tax_amount"`
		Status    RecordStatus    `json:"status"`
	}
)

var (
	ErrDuplicateAccount   = errors.New("account already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNoSession          = errors.New("no active session")
)

// NormalizeIdentifier lowercases and trims an account identifier.
// Every lookup and storage key goes through this; it is idempotent.
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// DefaultProfile returns the profile synthesized on first access for an
// account that never updated its settings. Category "1" is distribution
// of goods (VAT 1%, PIT 0.5%).
func DefaultProfile(displayName string) Profile {
	if strings.TrimSpace(displayName) == "" {
		displayName = "Người dùng mới"
	}
	return Profile{
		DisplayName:        displayName,
		TaxCode:            "Chưa cập nhật",
		BusinessType:       "Hộ kinh doanh cá thể",
		AvatarURL:          "https://picsum.photos/seed/taxviet/100/100",
		BusinessCategoryID: "1",
		VATRate:            decimal.NewFromFloat(0.01),
		PITRate:            decimal.NewFromFloat(0.005),
	}
}

func (s RecordStatus) Validate() error {
	switch s {
	case StatusPaid, StatusPending:
		return nil
	}
	return errors.New("invalid record status")
}

// Toggle flips paid to pending and back.
func (s RecordStatus) Toggle() RecordStatus {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

func (a Account) Validate() error {
	if NormalizeIdentifier(a.Identifier) == "" {
		return errors.New("empty identifier")
	}
	if strings.TrimSpace(a.FullName) == "" {
		return errors.New("empty full name")
	}
	if a.SecretHash == "" {
		return errors.New("empty secret hash")
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.DisplayName) == "" {
		return errors.New("empty display name")
	}
	if len(p.DisplayName) > 100 {
		return errors.New("display name too long (max 100 characters)")
	}
	if err := validateRate(p.VATRate); err != nil {
		return errors.New("invalid VAT rate: " + err.Error())
	}
	if err := validateRate(p.PITRate); err != nil {
		return errors.New("invalid PIT rate: " + err.Error())
	}
	return nil
}

func (r TaxRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("empty record id")
	}
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("empty record label")
	}
	if r.Revenue.IsNegative() {
		return errors.New("negative revenue")
	}
	if r.TaxAmount.IsNegative() {
		return errors.New("negative tax amount")
	}
	return r.Status.Validate()
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return errors.New("rate below zero")
	}
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return errors.New("rate above one")
	}
	return nil
}
