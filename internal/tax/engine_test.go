package tax

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dominh-hy/TaxViet/internal/core"
)

func baseInput() Input {
	return Input{
		Revenue:       decimal.NewFromInt(100_000_000),
		Expenses:      decimal.NewFromInt(20_000_000),
		CategoryLabel: "Phân phối, cung cấp hàng hóa",
		VATRate:       decimal.NewFromFloat(0.01),
		PITRate:       decimal.NewFromFloat(0.005),
		Period:        PeriodQuarter,
		Method:        MethodExpense,
	}
}

func TestComputeExpenseMethod(t *testing.T) {
	// Worked example: base 80M, VAT 800k, PIT 400k, total 1.2M.
	res, err := Compute(baseInput())
	require.NoError(t, err)

	assert.True(t, res.TaxableBase.Equal(decimal.NewFromInt(80_000_000)), "base = %s", res.TaxableBase)
	assert.True(t, res.VAT.Equal(decimal.NewFromInt(800_000)), "vat = %s", res.VAT)
	assert.True(t, res.PIT.Equal(decimal.NewFromInt(400_000)), "pit = %s", res.PIT)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(1_200_000)), "total = %s", res.Total)
}

func TestComputeThresholdIgnoresExpenses(t *testing.T) {
	in := baseInput()
	in.Method = MethodThreshold

	var first Result
	for i, expenses := range []int64{0, 1, 20_000_000, 100_000_000} {
		in.Expenses = decimal.NewFromInt(expenses)
		res, err := Compute(in)
		require.NoError(t, err)
		if i == 0 {
			first = res
			continue
		}
		assert.True(t, res.Total.Equal(first.Total), "expenses=%d changed the result", expenses)
	}

	assert.True(t, first.TaxableBase.Equal(in.Revenue))
	assert.True(t, first.Total.Equal(decimal.NewFromInt(1_500_000)))
}

func TestComputeExpenseClampsBaseAtZero(t *testing.T) {
	in := baseInput()
	in.Expenses = decimal.NewFromInt(150_000_000)

	res, err := Compute(in)
	require.NoError(t, err)
	assert.True(t, res.TaxableBase.IsZero())
	assert.True(t, res.Total.IsZero())
}

func TestComputeExpenseZeroExpensesEqualsThreshold(t *testing.T) {
	expense := baseInput()
	expense.Expenses = decimal.Zero

	threshold := baseInput()
	threshold.Method = MethodThreshold

	a, err := Compute(expense)
	require.NoError(t, err)
	b, err := Compute(threshold)
	require.NoError(t, err)

	assert.True(t, a.Total.Equal(b.Total))
	assert.True(t, a.VAT.Equal(b.VAT))
	assert.True(t, a.PIT.Equal(b.PIT))
}

func TestComputePeriodDoesNotChangeArithmetic(t *testing.T) {
	quarter := baseInput()
	year := baseInput()
	year.Period = PeriodYear

	a, err := Compute(quarter)
	require.NoError(t, err)
	b, err := Compute(year)
	require.NoError(t, err)
	assert.True(t, a.Total.Equal(b.Total))
}

func TestComputeCarriesFullPrecision(t *testing.T) {
	in := baseInput()
	in.Revenue = decimal.RequireFromString("1000000.33")
	in.Expenses = decimal.Zero
	in.Method = MethodThreshold

	res, err := Compute(in)
	require.NoError(t, err)
	// 1000000.33 * 0.01 = 10000.0033, no rounding inside the engine.
	assert.True(t, res.VAT.Equal(decimal.RequireFromString("10000.0033")), "vat = %s", res.VAT)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Input)
	}{
		{"negative revenue", func(in *Input) { in.Revenue = decimal.NewFromInt(-1) }},
		{"negative expenses", func(in *Input) { in.Expenses = decimal.NewFromInt(-1) }},
		{"vat rate above one", func(in *Input) { in.VATRate = decimal.NewFromInt(2) }},
		{"negative pit rate", func(in *Input) { in.PITRate = decimal.NewFromFloat(-0.1) }},
		{"unknown period", func(in *Input) { in.Period = "month" }},
		{"unknown method", func(in *Input) { in.Method = "lump-sum" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := baseInput()
			tc.mutate(&in)
			_, err := Compute(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidInput), "got %v", err)
		})
	}
}
