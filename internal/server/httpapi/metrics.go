package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	opRegister      = "register"
	opLogin         = "login"
	opUpdateProfile = "update_profile"
	opAuthenticate  = "authenticate"
)

// Metrics holds the Prometheus collectors of the HTTP layer.
type Metrics struct {
	AuthOperations  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AuthOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sportstore_auth_operations_total",
				Help: "Total number of auth operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sportstore_http_request_duration_seconds",
				Help:    "HTTP request latency by method, route and status",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(m.AuthOperations)
	reg.MustRegister(m.RequestDuration)

	return m
}

func (m *Metrics) observeAuth(operation string, err error) {
	m.AuthOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrorInternal):
		return "error"
	case errors.Is(err, common.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, common.ErrValidation):
		return "invalid_input"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorUnauthorized):
		return "unauthenticated"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	default:
		return "error"
	}
}
