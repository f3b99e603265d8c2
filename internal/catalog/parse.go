package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice accepts a non-negative decimal amount such as "4.50".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: price is required", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price %q is not a number", ErrInvalidInput, s)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: price %q is negative", ErrInvalidInput, s)
	}
	return d, nil
}

// ParseAvailability resolves a yes/no answer. ok is false for anything else.
func ParseAvailability(s string) (available, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y":
		return true, true
	case "no", "n":
		return false, true
	}
	return false, false
}

// ParseItem builds a MenuItem from raw prompt answers. Only an explicit
// "yes" marks the item available.
func ParseItem(id, name, category, price, available string) (MenuItem, error) {
	p, err := ParsePrice(price)
	if err != nil {
		return MenuItem{}, err
	}
	avail, _ := ParseAvailability(available)

	return MenuItem{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     p,
		Available: avail,
	}, nil
}

// ParseUpdate builds an Update from raw prompt answers, where an empty
// answer means "keep the current value".
func ParseUpdate(name, category, price, available string) (Update, error) {
	var u Update

	if name != "" {
		u.Name = &name
	}
	if category != "" {
		u.Category = &category
	}
	if strings.TrimSpace(price) != "" {
		p, err := ParsePrice(price)
		if err != nil {
			return Update{}, err
		}
		u.Price = &p
	}
	if avail, ok := ParseAvailability(available); ok {
		u.Available = &avail
	}
	return u, nil
}
