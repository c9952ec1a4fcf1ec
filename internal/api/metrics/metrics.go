// Package metrics defines the custom Prometheus metrics for the Conecta user
// API. HTTP request metrics come from echoprometheus; the counters here track
// authentication and user lifecycle outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conecta"

// Values for the result label of LoginAttemptsTotal.
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginRateLimited        = "rate_limited"
	LoginError              = "error"
)

// Values for the source label of UsersCreatedTotal.
const (
	SourceRegister = "register"
	SourceAdmin    = "admin"
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts newly created users.
// Label:
//   - source: "register" (self-service) or "admin" (POST /users)
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by source.",
	},
	[]string{"source"},
)

// UsersUpdatedTotal counts successful user updates.
var UsersUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_updated_total",
		Help:      "Total number of user records updated.",
	},
)

// UsersDeletedTotal counts removed users.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user records removed.",
	},
)

// InactiveUsers reports the size of the last inactive-users report.
var InactiveUsers = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "inactive_users",
		Help:      "Number of users returned by the most recent inactive-users query.",
	},
)
