package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for logins and account management.
type Metrics struct {
	UsersCreated  *prometheus.CounterVec
	LoginAttempts *prometheus.CounterVec
	LoginDuration prometheus.Histogram
}

// New registers identity metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_users_created_total",
			Help: "Total number of users created, by role",
		}, []string{"role"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_login_attempts_total",
			Help: "Login attempts by outcome (success, failure, locked)",
		}, []string{"outcome"}),
		LoginDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hotel_login_duration_seconds",
			Help:    "Duration of login including password verification",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementUserCreated records a created account.
func (m *Metrics) IncrementUserCreated(role string) {
	m.UsersCreated.WithLabelValues(role).Inc()
}

// IncrementLogin records a login outcome.
func (m *Metrics) IncrementLogin(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveLogin records the duration of a login.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLogin(start time.Time) {
	m.LoginDuration.Observe(time.Since(start).Seconds())
}
