package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line is one ordered quantity of a menu item. Name and UnitPrice are copied
// from the catalog when the line is added, so later catalog edits do not
// change it.
type Line struct {
	ItemID    string          `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Bill struct {
	ID        string          `json:"id"`
	Customer  string          `json:"customer"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// Quantity returns the number of units across all lines.
func (b Bill) Quantity() int {
	n := 0
	for _, l := range b.Lines {
		n += l.Quantity
	}
	return n
}

// FormatAmount renders an amount with two decimals. Rounding happens only
// here.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
