package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Session metrics
var (
	// ActiveSessions tracks the number of open WebSocket control sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "windowdeck_active_sessions",
			Help: "Number of open WebSocket control sessions",
		},
	)

	// CommandsTotal tracks processed commands by command name and outcome
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windowdeck_commands_total",
			Help: "Processed control commands by command and status",
		},
		[]string{"command", "status"},
	)

	// FramesDropped tracks inbound frames dropped as malformed or incomplete
	FramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windowdeck_frames_dropped_total",
			Help: "Inbound frames dropped without a response, by reason",
		},
		[]string{"reason"},
	)
)

// Reconciliation metrics
var (
	// ReconcileDuration tracks end-to-end list-windows reconciliation latency
	ReconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "windowdeck_reconcile_duration_seconds",
			Help:    "Layout reconciliation duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// ReconcileCorrections tracks windows forced back to persisted geometry
	ReconcileCorrections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "windowdeck_reconcile_corrections_total",
			Help: "Windows moved or resized back to their persisted geometry",
		},
	)

	// WindowSystemErrors tracks failed window-system calls by operation
	WindowSystemErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windowdeck_window_system_errors_total",
			Help: "Failed window-system calls by operation",
		},
		[]string{"operation"},
	)
)

// Auth metrics
var (
	// AuthFailures tracks rejected logins and token validations
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "windowdeck_auth_failures_total",
			Help: "Rejected authentication attempts by kind (login/token)",
		},
		[]string{"kind"},
	)
)
