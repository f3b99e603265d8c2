package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("item not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrPersistence  = errors.New("persistence failure")
)

type MenuItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// Record is the flat textual form of a MenuItem used by snapshot adapters.
// Available is written as "true" or "false"; FromRecord also accepts the
// other boolean spellings older snapshots used, and rejects records that
// Add would reject.
type Record struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Available string `json:"available"`
}

// Store persists full catalog snapshots. Save replaces whatever was stored
// before; Load reports found=false when no snapshot exists yet.
type Store interface {
	Load(ctx context.Context) ([]MenuItem, bool, error)
	Save(ctx context.Context, items []MenuItem) error
	Ping(ctx context.Context) error
}

func ToRecord(it MenuItem) Record {
	return Record{
		ID:        it.ID,
		Name:      it.Name,
		Category:  it.Category,
		Price:     it.Price.String(),
		Available: strconv.FormatBool(it.Available),
	}
}

func FromRecord(r Record) (MenuItem, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return MenuItem{}, fmt.Errorf("item %q: price %q: %w", r.ID, r.Price, err)
	}

	available, ok := parseStoredBool(r.Available)
	if !ok {
		return MenuItem{}, fmt.Errorf("item %q: availability %q is not a boolean", r.ID, r.Available)
	}

	it := MenuItem{
		ID:        r.ID,
		Name:      r.Name,
		Category:  r.Category,
		Price:     price,
		Available: available,
	}
	if err := validate(it); err != nil {
		return MenuItem{}, fmt.Errorf("item %q: %w", r.ID, err)
	}
	return it, nil
}

func parseStoredBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "t", "1", "yes", "y":
		return true, true
	case "false", "f", "0", "no", "n", "":
		return false, true
	}
	return false, false
}

func cloneItems(items []MenuItem) []MenuItem {
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
