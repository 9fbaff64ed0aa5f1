// Package categories holds the business-category table used by the
// calculator. Rates follow the presumptive household-business schedule
// of Circular 40/2021/TT-BTC.
package categories

import "github.com/shopspring/decimal"

// Category is one line of business with its flat VAT and PIT rates.
type Category struct {
	ID      string          `json:"id"`
	Label   string          `json:"label"`
	VATRate decimal.Decimal `json:"vat_rate"`
	PITRate decimal.Decimal `json:"pit_rate"`
}

var table = []Category{
	{
		ID:      "1",
		Label:   "Phân phối, cung cấp hàng hóa",
		VATRate: decimal.NewFromFloat(0.01),
		PITRate: decimal.NewFromFloat(0.005),
	},
	{
		ID:      "2",
		Label:   "Dịch vụ, xây dựng không bao thầu nguyên vật liệu",
		VATRate: decimal.NewFromFloat(0.05),
		PITRate: decimal.NewFromFloat(0.02),
	},
	{
		ID:      "3",
		Label:   "Sản xuất, vận tải, dịch vụ có gắn với hàng hóa",
		VATRate: decimal.NewFromFloat(0.03),
		PITRate: decimal.NewFromFloat(0.015),
	},
	{
		ID:      "4",
		Label:   "Hoạt động kinh doanh khác",
		VATRate: decimal.NewFromFloat(0.02),
		PITRate: decimal.NewFromFloat(0.01),
	},
}

// All returns the category table in display order. The returned slice
// is a copy; callers may not mutate the table.
func All() []Category {
	out := make([]Category, len(table))
	copy(out, table)
	return out
}

// ByID looks up a category by its identifier.
func ByID(id string) (Category, bool) {
	for _, c := range table {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
