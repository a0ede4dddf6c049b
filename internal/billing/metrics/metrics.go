package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks money flowing through branches.
type Metrics struct {
	PaymentsRecorded *prometheus.CounterVec
	PaymentAmount    *prometheus.CounterVec
	InvoicesIssued   *prometheus.CounterVec
}

// New registers billing metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PaymentsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_payments_recorded_total",
			Help: "Payments recorded, by method and status",
		}, []string{"method", "status"}),
		PaymentAmount: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_payment_amount_cents_total",
			Help: "Sum of recorded payment amounts in cents, by method",
		}, []string{"method"}),
		InvoicesIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_invoices_issued_total",
			Help: "Invoices issued, by origin (reservation, desk)",
		}, []string{"origin"}),
	}
}

// RecordPayment counts a payment and adds its amount.
func (m *Metrics) RecordPayment(method, status string, cents int64) {
	m.PaymentsRecorded.WithLabelValues(method, status).Inc()
	m.PaymentAmount.WithLabelValues(method).Add(float64(cents))
}

// IncrementInvoice counts an issued invoice.
func (m *Metrics) IncrementInvoice(origin string) {
	m.InvoicesIssued.WithLabelValues(origin).Inc()
}
