package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"CafeDesk/internal/catalog"
)

var (
	ErrItemUnavailable = errors.New("item not available or not found")
	ErrSessionState    = errors.New("order session in wrong state")
)

type State int

const (
	StateCreated State = iota
	StateAccumulating
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAccumulating:
		return "accumulating"
	case StateFinalized:
		return "finalized"
	}
	return "unknown"
}

// Menu is the read side of the catalog an order needs.
type Menu interface {
	Get(id string) (catalog.MenuItem, bool)
}

// Session collects lines for one customer and produces a Bill. It never
// modifies the menu and is discarded once finished.
type Session struct {
	menu     Menu
	state    State
	customer string
	lines    []Line
	now      func() time.Time
}

func NewSession(menu Menu) *Session {
	return &Session{menu: menu, now: time.Now}
}

func (s *Session) State() State { return s.state }

func (s *Session) Customer() string { return s.customer }

func (s *Session) Start(customer string) error {
	if s.state != StateCreated {
		return fmt.Errorf("%w: start in %s", ErrSessionState, s.state)
	}
	s.customer = customer
	s.lines = s.lines[:0]
	s.state = StateAccumulating
	return nil
}

// AddLine snapshots the item's name and price and appends a line. Missing
// and unavailable items both yield ErrItemUnavailable.
func (s *Session) AddLine(itemID string, qty int) (Line, error) {
	if s.state != StateAccumulating {
		return Line{}, fmt.Errorf("%w: add line in %s", ErrSessionState, s.state)
	}
	if qty <= 0 {
		return Line{}, fmt.Errorf("%w: quantity must be a positive integer", catalog.ErrInvalidInput)
	}

	it, ok := s.menu.Get(itemID)
	if !ok || !it.Available {
		return Line{}, ErrItemUnavailable
	}

	l := Line{
		ItemID:    it.ID,
		Name:      it.Name,
		UnitPrice: it.Price,
		Quantity:  qty,
		Subtotal:  it.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
	s.lines = append(s.lines, l)
	return l, nil
}

// Lines returns a copy of the lines added so far.
func (s *Session) Lines() []Line {
	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Finish closes the session. ok is false when no line was added; no Bill is
// produced in that case.
func (s *Session) Finish() (Bill, bool, error) {
	if s.state != StateAccumulating {
		return Bill{}, false, fmt.Errorf("%w: finish in %s", ErrSessionState, s.state)
	}
	s.state = StateFinalized

	if len(s.lines) == 0 {
		return Bill{}, false, nil
	}

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal)
	}

	return Bill{
		ID:        "o_" + uuid.NewString(),
		Customer:  s.customer,
		Lines:     s.Lines(),
		Total:     total,
		CreatedAt: s.now().UTC(),
	}, true, nil
}

// ParseQuantity reads a positive integer quantity from a prompt answer.
func ParseQuantity(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a whole number", catalog.ErrInvalidInput, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: quantity must be at least 1", catalog.ErrInvalidInput)
	}
	return n, nil
}
