package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	RequestLatency   *prometheus.HistogramVec
	UsersRegistered  prometheus.Counter
	LoginOutcomes    *prometheus.CounterVec
	QRCodesCreated   *prometheus.CounterVec
	CheckoutSessions *prometheus.CounterVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "qrgen_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by route, method and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"route", "method", "status"}),

		UsersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "qrgen_users_registered_total",
			Help: "Total number of users registered",
		}),

		LoginOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrgen_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}), // outcome: "success", "invalid_credentials", "unknown_user", "locked"

		QRCodesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrgen_qrcodes_created_total",
			Help: "QR code records created by type",
		}, []string{"type"}),

		CheckoutSessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "qrgen_checkout_sessions_total",
			Help: "Donation checkout session requests by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRequest records the latency of one HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m != nil {
		m.RequestLatency.WithLabelValues(route, method, status).Observe(d.Seconds())
	}
}

// IncrementUsersRegistered increments the registered users counter by 1
func (m *Metrics) IncrementUsersRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

// IncrementLoginOutcome records a login attempt outcome.
func (m *Metrics) IncrementLoginOutcome(outcome string) {
	if m != nil {
		m.LoginOutcomes.WithLabelValues(outcome).Inc()
	}
}

// knownQRTypes bounds the type label; the type itself is client supplied.
var knownQRTypes = map[string]struct{}{
	"URL": {}, "TEXT": {}, "EMAIL": {}, "PHONE": {}, "SMS": {},
	"WIFI": {}, "VCARD": {}, "LOCATION": {}, "EVENT": {},
}

// QRTypeLabel maps a record type onto the fixed label set, "other" otherwise.
func QRTypeLabel(qrType string) string {
	upper := strings.ToUpper(strings.TrimSpace(qrType))
	if _, ok := knownQRTypes[upper]; ok {
		return upper
	}
	return "other"
}

// IncrementQRCodesCreated records a stored QR code of the given type.
func (m *Metrics) IncrementQRCodesCreated(qrType string) {
	if m != nil {
		m.QRCodesCreated.WithLabelValues(QRTypeLabel(qrType)).Inc()
	}
}

// IncrementCheckoutSessions records a checkout session request outcome.
func (m *Metrics) IncrementCheckoutSessions(outcome string) {
	if m != nil {
		m.CheckoutSessions.WithLabelValues(outcome).Inc()
	}
}
