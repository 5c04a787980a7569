package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	LoansCreated     prometheus.Counter
	PrincipalIssued  prometheus.Counter
	PaymentsRecorded *prometheus.CounterVec
	AmountRepaid     prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		LoansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simpleloan_loans_created_total",
			Help: "Number of loans originated.",
		}),
		PrincipalIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simpleloan_principal_issued_total",
			Help: "Sum of principal across originated loans.",
		}),
		PaymentsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simpleloan_payments_recorded_total",
			Help: "Number of payments recorded, by payment type.",
		}, []string{"type"}),
		AmountRepaid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simpleloan_amount_repaid_total",
			Help: "Sum of recorded payment amounts.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "simpleloan_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	reg.MustRegister(
		m.LoansCreated,
		m.PrincipalIssued,
		m.PaymentsRecorded,
		m.AmountRepaid,
		m.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLoan records an originated loan.
func (m *Metrics) ObserveLoan(principal decimal.Decimal) {
	m.LoansCreated.Inc()
	m.PrincipalIssued.Add(principal.InexactFloat64())
}

// ObservePayment records a payment of the given type.
func (m *Metrics) ObservePayment(kind string, amount decimal.Decimal) {
	m.PaymentsRecorded.WithLabelValues(kind).Inc()
	m.AmountRepaid.Add(amount.InexactFloat64())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
