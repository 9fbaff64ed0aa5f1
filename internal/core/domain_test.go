package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeIdentifier(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"A@B.com", "a@b.com"},
		{"  0912345678 ", "0912345678"},
		{"Already@lower.vn", "already@lower.vn"},
		{"", ""},
	}
	for i, tc := range cases {
		got := NormalizeIdentifier(tc.in)
		if got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
		// Normalization is idempotent.
		if again := NormalizeIdentifier(got); again != got {
			t.Fatalf("case %d: not idempotent: %q -> %q", i, got, again)
		}
	}
}

func TestRecordStatusToggle(t *testing.T) {
	if StatusPaid.Toggle() != StatusPending {
		t.Fatal("paid should toggle to pending")
	}
	if StatusPending.Toggle() != StatusPaid {
		t.Fatal("pending should toggle to paid")
	}
	// Toggle is its own inverse.
	for _, s := range []RecordStatus{StatusPaid, StatusPending} {
		if s.Toggle().Toggle() != s {
			t.Fatalf("double toggle changed %s", s)
		}
	}
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile("Nguyễn Văn A")
	if p.DisplayName != "Nguyễn Văn A" {
		t.Fatalf("display name = %q", p.DisplayName)
	}
	if p.BusinessCategoryID != "1" {
		t.Fatalf("category = %q", p.BusinessCategoryID)
	}
	if !p.VATRate.Equal(decimal.NewFromFloat(0.01)) || !p.PITRate.Equal(decimal.NewFromFloat(0.005)) {
		t.Fatalf("default rates = %s / %s", p.VATRate, p.PITRate)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}

	anon := DefaultProfile("  ")
	if anon.DisplayName != "Người dùng mới" {
		t.Fatalf("fallback display name = %q", anon.DisplayName)
	}
}

func TestProfileValidate(t *testing.T) {
	good := DefaultProfile("user")
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Profile{
		func() Profile { p := DefaultProfile("u"); p.DisplayName = ""; return p }(),
		func() Profile { p := DefaultProfile("u"); p.VATRate = decimal.NewFromFloat(-0.01); return p }(),
		func() Profile { p := DefaultProfile("u"); p.PITRate = decimal.NewFromFloat(1.5); return p }(),
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestTaxRecordValidate(t *testing.T) {
	good := TaxRecord{
		ID:        "r1",
		Label:     "Dự toán Quý 2026 (1/1/2026)",
		Revenue:   decimal.NewFromInt(100_000_000),
		TaxAmount: decimal.NewFromInt(1_500_000),
		Status:    StatusPending,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []TaxRecord{
		{ID: "", Label: "l", Revenue: decimal.NewFromInt(1), TaxAmount: decimal.NewFromInt(1), Status: StatusPaid},
		{ID: "r", Label: "", Revenue: decimal.NewFromInt(1), TaxAmount: decimal.NewFromInt(1), Status: StatusPaid},
		{ID: "r", Label: "l", Revenue: decimal.NewFromInt(-1), TaxAmount: decimal.NewFromInt(1), Status: StatusPaid},
		{ID: "r", Label: "l", Revenue: decimal.NewFromInt(1), TaxAmount: decimal.NewFromInt(-1), Status: StatusPaid},
		{ID: "r", Label: "l", Revenue: decimal.NewFromInt(1), TaxAmount: decimal.NewFromInt(1), Status: "archived"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
