// Package metrics provides Prometheus metrics for the rental API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AgreementTransitionsTotal tracks agreement status transitions
	AgreementTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "agreements",
			Name:      "transitions_total",
			Help:      "Total number of agreement status transitions",
		},
		[]string{"to_status"},
	)

	// AgreementsExpiredTotal tracks agreements lapsed to expired during reads
	AgreementsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "agreements",
			Name:      "expired_total",
			Help:      "Total number of agreements lapsed to expired",
		},
	)

	// TicketTransitionsTotal tracks maintenance ticket status transitions
	TicketTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "tickets",
			Name:      "transitions_total",
			Help:      "Total number of ticket status transitions",
		},
		[]string{"to_status"},
	)

	// PaymentsTotal tracks payment outcomes
	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "payments",
			Name:      "total",
			Help:      "Total number of payments by status",
		},
		[]string{"status"},
	)

	// LoginsTotal tracks login attempts
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// GatewayRequestsTotal tracks outbound payment gateway requests
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentease",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Total number of outbound payment gateway requests",
		},
		[]string{"method", "status_code"},
	)
)
