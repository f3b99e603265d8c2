package kit

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelOp     = "op"
	labelResult = "result"

	resultOK     = "ok"
	resultFailed = "failed"
	resultBilled = "billed"
	resultEmpty  = "empty"
)

// Metrics holds the counters for catalog and ordering activity. All methods
// are safe to call on a nil *Metrics.
type Metrics struct {
	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
	Orders          *prometheus.CounterVec
	OrderLines      prometheus.Counter
	BilledAmount    prometheus.Counter
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafe_catalog_mutations_total",
				Help: "Catalog mutations by operation and result",
			},
			[]string{labelOp, labelResult},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cafe_catalog_persist_failures_total",
			Help: "Snapshot writes that failed",
		}),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafe_orders_total",
				Help: "Finished order sessions by result",
			},
			[]string{labelResult},
		),
		OrderLines: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cafe_order_lines_total",
			Help: "Line items added to orders",
		}),
		BilledAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cafe_billed_amount_total",
			Help: "Sum of bill totals",
		}),
	}

	reg.MustRegister(m.Mutations, m.PersistFailures, m.Orders, m.OrderLines, m.BilledAmount)
	return m
}

func (m *Metrics) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	result := resultOK
	if err != nil {
		result = resultFailed
	}
	m.Mutations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) ObserveBill(lines int, total float64) {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(resultBilled).Inc()
	m.OrderLines.Add(float64(lines))
	if total > 0 {
		m.BilledAmount.Add(total)
	}
}

func (m *Metrics) ObserveEmptyOrder() {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(resultEmpty).Inc()
}

// WriteTextfile dumps the registry in the text exposition format, for the
// node_exporter textfile collector or for inspection.
func WriteTextfile(path string, reg *prometheus.Registry) error {
	return prometheus.WriteToTextfile(path, reg)
}
