package kit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CafeDesk/pkg/kit"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *kit.Metrics

	assert.NotPanics(t, func() {
		m.ObserveMutation("add", nil)
		m.ObservePersistFailure()
		m.ObserveBill(2, 10)
		m.ObserveEmptyOrder()
	})
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := kit.NewMetrics(reg)

	m.ObserveMutation("add", nil)
	m.ObserveMutation("add", errors.New("x"))
	m.ObserveBill(3, 12.5)
	m.ObserveEmptyOrder()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("add", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("billed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Orders.WithLabelValues("empty")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.OrderLines))
	assert.Equal(t, 12.5, testutil.ToFloat64(m.BilledAmount))
}

func TestMetrics_ObserveBillIgnoresNonPositiveTotal(t *testing.T) {
	m := kit.NewMetrics(prometheus.NewRegistry())

	assert.NotPanics(t, func() {
		m.ObserveBill(1, -5)
		m.ObserveBill(1, 0)
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Orders.WithLabelValues("billed")))
	assert.Zero(t, testutil.ToFloat64(m.BilledAmount))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := kit.NewMetrics(reg)
	m.ObserveBill(1, 4.5)

	path := filepath.Join(t.TempDir(), "cafe.prom")
	require.NoError(t, kit.WriteTextfile(path, reg))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "cafe_billed_amount_total 4.5")
	assert.Contains(t, string(b), `cafe_orders_total{result="billed"} 1`)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cafe.log")
	log := kit.NewLogger("cafe", kit.LogConfig{Level: "debug", File: path, MaxSizeMB: 1})

	log.Debug("hello")
	require.NoError(t, log.Sync())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"service":"cafe"`)
	assert.Contains(t, string(b), `"msg":"hello"`)
}
