package order_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"CafeDesk/internal/catalog"
	"CafeDesk/internal/order"
)

type menu map[string]catalog.MenuItem

func (m menu) Get(id string) (catalog.MenuItem, bool) {
	it, ok := m[id]
	return it, ok
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testMenu() menu {
	return menu{
		"A":   {ID: "A", Name: "Cake", Price: dec("50.00"), Available: true},
		"B":   {ID: "B", Name: "Coffee", Price: dec("30.50"), Available: true},
		"OFF": {ID: "OFF", Name: "Soup", Price: dec("12"), Available: false},
	}
}

func startedSession(t *testing.T, m order.Menu) *order.Session {
	t.Helper()
	s := order.NewSession(m)
	require.NoError(t, s.Start("Asha"))
	return s
}

func TestSession_BillTotal(t *testing.T) {
	s := startedSession(t, testMenu())

	l, err := s.AddLine("A", 2)
	require.NoError(t, err)
	assert.Equal(t, "Cake", l.Name)
	assert.Equal(t, "100.00", order.FormatAmount(l.Subtotal))

	_, err = s.AddLine("B", 1)
	require.NoError(t, err)

	bill, ok, err := s.Finish()
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "130.50", order.FormatAmount(bill.Total))
	assert.Equal(t, "Asha", bill.Customer)
	assert.Len(t, bill.Lines, 2)
	assert.Equal(t, 3, bill.Quantity())
	assert.True(t, strings.HasPrefix(bill.ID, "o_"))
	assert.False(t, bill.CreatedAt.IsZero())
	assert.Equal(t, order.StateFinalized, s.State())
}

func TestSession_Unavailable(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "marked unavailable", id: "OFF"},
		{name: "unknown id", id: "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startedSession(t, testMenu())

			_, err := s.AddLine(tt.id, 1)
			assert.ErrorIs(t, err, order.ErrItemUnavailable)
			assert.Empty(t, s.Lines())
		})
	}
}

func TestSession_InvalidQuantity(t *testing.T) {
	s := startedSession(t, testMenu())

	for _, qty := range []int{0, -1} {
		_, err := s.AddLine("A", qty)
		assert.ErrorIs(t, err, catalog.ErrInvalidInput)
	}
	assert.Empty(t, s.Lines())
}

func TestSession_EmptyFinish(t *testing.T) {
	s := startedSession(t, testMenu())

	bill, ok, err := s.Finish()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, order.Bill{}, bill)
}

func TestSession_StateMachine(t *testing.T) {
	s := order.NewSession(testMenu())
	assert.Equal(t, order.StateCreated, s.State())

	_, err := s.AddLine("A", 1)
	assert.ErrorIs(t, err, order.ErrSessionState)
	_, _, err = s.Finish()
	assert.ErrorIs(t, err, order.ErrSessionState)

	require.NoError(t, s.Start(""))
	assert.Equal(t, order.StateAccumulating, s.State())
	assert.ErrorIs(t, s.Start("again"), order.ErrSessionState)

	_, _, err = s.Finish()
	require.NoError(t, err)

	_, err = s.AddLine("A", 1)
	assert.ErrorIs(t, err, order.ErrSessionState)
	_, _, err = s.Finish()
	assert.ErrorIs(t, err, order.ErrSessionState)
}

func TestSession_LineSnapshotSurvivesPriceChange(t *testing.T) {
	ctx := context.Background()
	cat := catalog.New(catalog.NewMemStore(), nil, nil)
	require.NoError(t, cat.Add(ctx, catalog.MenuItem{ID: "A", Name: "Cake", Price: dec("50.00"), Available: true}))

	s := startedSession(t, cat)
	_, err := s.AddLine("A", 2)
	require.NoError(t, err)

	newPrice := dec("99.99")
	_, err = cat.Update(ctx, "A", catalog.Update{Price: &newPrice})
	require.NoError(t, err)

	bill, ok, err := s.Finish()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "100.00", order.FormatAmount(bill.Lines[0].Subtotal))
	assert.Equal(t, "50.00", order.FormatAmount(bill.Lines[0].UnitPrice))
	assert.Equal(t, "100.00", order.FormatAmount(bill.Total))
}

func TestSession_TotalIsExactSum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := menu{}
		n := rapid.IntRange(1, 10).Draw(t, "items")
		for i := 0; i < n; i++ {
			id := string(rune('a' + i))
			m[id] = catalog.MenuItem{
				ID:        id,
				Name:      "item " + id,
				Price:     decimal.New(rapid.Int64Range(0, 1_000_000).Draw(t, "price"), -3),
				Available: true,
			}
		}

		s := order.NewSession(m)
		if err := s.Start("prop"); err != nil {
			t.Fatalf("start: %v", err)
		}

		want := decimal.Zero
		lines := rapid.IntRange(1, 20).Draw(t, "lines")
		for i := 0; i < lines; i++ {
			id := string(rune('a' + rapid.IntRange(0, n-1).Draw(t, "pick")))
			qty := rapid.IntRange(1, 50).Draw(t, "qty")
			if _, err := s.AddLine(id, qty); err != nil {
				t.Fatalf("add line: %v", err)
			}
			want = want.Add(m[id].Price.Mul(decimal.NewFromInt(int64(qty))))
		}

		bill, ok, err := s.Finish()
		if err != nil || !ok {
			t.Fatalf("finish: ok=%v err=%v", ok, err)
		}
		if !bill.Total.Equal(want) {
			t.Fatalf("total %s, want %s", bill.Total, want)
		}
	})
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "1", want: 1},
		{in: " 12 ", want: 12},
		{in: "0", wantErr: true},
		{in: "-2", wantErr: true},
		{in: "two", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := order.ParseQuantity(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, catalog.ErrInvalidInput, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}
