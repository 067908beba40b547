package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts ledger outcomes.
type Metrics struct {
	expensesCreated *prometheus.CounterVec
	accessDenied    prometheus.Counter
	groupsCreated   prometheus.Counter
}

// NewMetrics registers the ledger collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		expensesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gastosfacil",
			Subsystem: "ledger",
			Name:      "expenses_created_total",
			Help:      "Expenses recorded, by category.",
		}, []string{"category"}),
		accessDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gastosfacil",
			Subsystem: "ledger",
			Name:      "access_denied_total",
			Help:      "Group accesses rejected for missing membership.",
		}),
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gastosfacil",
			Subsystem: "ledger",
			Name:      "groups_created_total",
			Help:      "Groups created.",
		}),
	}
	reg.MustRegister(m.expensesCreated, m.accessDenied, m.groupsCreated)
	return m
}

func (m *Metrics) expenseCreated(category string) {
	if m == nil {
		return
	}
	m.expensesCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) denied() {
	if m == nil {
		return
	}
	m.accessDenied.Inc()
}

func (m *Metrics) groupCreated() {
	if m == nil {
		return
	}
	m.groupsCreated.Inc()
}
