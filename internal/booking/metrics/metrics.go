package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks reservations and front-desk traffic.
type Metrics struct {
	Reservations *prometheus.CounterVec
	CheckIns     *prometheus.CounterVec
	CheckOuts    prometheus.Counter
	RoomsBooked  prometheus.Histogram
}

// New registers booking metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Reservations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_reservations_total",
			Help: "Reservation lifecycle events (created, edited, cancelled, paid)",
		}, []string{"event"}),
		CheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hotel_check_ins_total",
			Help: "Guests checked in, by kind (reservation, walk_in)",
		}, []string{"kind"}),
		CheckOuts: factory.NewCounter(prometheus.CounterOpts{
			Name: "hotel_check_outs_total",
			Help: "Guests checked out",
		}),
		RoomsBooked: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hotel_reservation_rooms",
			Help:    "Rooms per reservation",
			Buckets: []float64{1, 2, 3, 5, 10},
		}),
	}
}

// IncrementReservation records a reservation lifecycle event.
func (m *Metrics) IncrementReservation(event string) {
	m.Reservations.WithLabelValues(event).Inc()
}

// ObserveRooms records how many rooms a reservation holds.
func (m *Metrics) ObserveRooms(n int) {
	m.RoomsBooked.Observe(float64(n))
}

// IncrementCheckIn records an arrival.
func (m *Metrics) IncrementCheckIn(kind string) {
	m.CheckIns.WithLabelValues(kind).Inc()
}

// IncrementCheckOut records a departure.
func (m *Metrics) IncrementCheckOut() {
	m.CheckOuts.Inc()
}
