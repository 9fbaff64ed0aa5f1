// Package tax implements the presumptive-tax computation for household
// businesses: a VAT component plus a PIT component, both derived from
// the same taxable base.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dominh-hy/TaxViet/internal/core"
)

const (
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"

	// MethodThreshold taxes gross revenue at flat rates.
	MethodThreshold Method = "threshold"
	// MethodExpense taxes revenue net of deductible expenses.
	MethodExpense Method = "expense"
)

type (
	Period string
	Method string

	// Input is one calculation request. Rates are fractions in [0,1].
	Input struct {
		Revenue       decimal.Decimal `json:"revenue"`
		Expenses      decimal.Decimal `json:"expenses"`
		CategoryLabel string          `json:"category_label"`
		VATRate       decimal.Decimal `json:"vat_rate"`
		PITRate       decimal.Decimal `json:"pit_rate"`
		Period        Period          `json:"period"`
		Method        Method          `json:"pit_method"`
	}

	// Result carries the computed components at full precision together
	// with the input echo needed to label a saved record. Rounding is
	// left to the presentation boundary.
	Result struct {
		Input       Input           `json:"input"`
		TaxableBase decimal.Decimal `json:"taxable_base"`
		VAT         decimal.Decimal `json:"vat"`
		PIT         decimal.Decimal `json:"pit"`
		Total       decimal.Decimal `json:"total"`
	}
)

func (p Period) Validate() error {
	switch p {
	case PeriodQuarter, PeriodYear:
		return nil
	}
	return fmt.Errorf("%w: unknown period %q", core.ErrInvalidInput, string(p))
}

func (m Method) Validate() error {
	switch m {
	case MethodThreshold, MethodExpense:
		return nil
	}
	return fmt.Errorf("%w: unknown PIT method %q", core.ErrInvalidInput, string(m))
}

func (in Input) Validate() error {
	if in.Revenue.IsNegative() {
		return fmt.Errorf("%w: negative revenue", core.ErrInvalidInput)
	}
	if in.Expenses.IsNegative() {
		return fmt.Errorf("%w: negative expenses", core.ErrInvalidInput)
	}
	one := decimal.NewFromInt(1)
	if in.VATRate.IsNegative() || in.VATRate.GreaterThan(one) {
		return fmt.Errorf("%w: VAT rate outside [0,1]", core.ErrInvalidInput)
	}
	if in.PITRate.IsNegative() || in.PITRate.GreaterThan(one) {
		return fmt.Errorf("%w: PIT rate outside [0,1]", core.ErrInvalidInput)
	}
	if err := in.Period.Validate(); err != nil {
		return err
	}
	return in.Method.Validate()
}

// Compute derives the tax obligation for the given input. It is pure:
// no storage access, no clock, no side effects.
//
// Under MethodThreshold the base is gross revenue and expenses are
// ignored. Under MethodExpense the base is revenue minus expenses,
// clamped at zero; a net loss never offsets other income.
func Compute(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	base := in.Revenue
	if in.Method == MethodExpense {
		base = in.Revenue.Sub(in.Expenses)
		if base.IsNegative() {
			base = decimal.Zero
		}
	}

	vat := base.Mul(in.VATRate)
	pit := base.Mul(in.PITRate)

	return Result{
		Input:       in,
		TaxableBase: base,
		VAT:         vat,
		PIT:         pit,
		Total:       vat.Add(pit),
	}, nil
}
