// Package metrics defines the Prometheus instrumentation shared across
// the bot. Collectors are registered on the default registry and served
// by the ops HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts handled bot commands by name.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queuebot_commands_total",
		Help: "Number of bot commands handled, by command.",
	}, []string{"command"})

	// CallbacksTotal counts handled button callbacks by scope and action.
	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queuebot_callbacks_total",
		Help: "Number of button callbacks handled, by scope and action.",
	}, []string{"scope", "action"})

	// UserErrorsTotal counts failures surfaced to users.
	UserErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queuebot_user_errors_total",
		Help: "Number of user-input errors surfaced as feedback messages.",
	})

	// InternalErrorsTotal counts failures swallowed as internal.
	InternalErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queuebot_internal_errors_total",
		Help: "Number of internal errors logged without user feedback.",
	})

	// ExpiredQueuesTotal counts queues deleted by the expiration scheduler.
	ExpiredQueuesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "queuebot_expired_queues_total",
		Help: "Number of queues deleted by the expiration scheduler.",
	})

	// ScheduledExpirations tracks currently scheduled expiration tasks.
	ScheduledExpirations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "queuebot_scheduled_expirations",
		Help: "Number of expiration tasks currently scheduled.",
	})

	// PendingSwaps tracks swap requests awaiting response.
	PendingSwaps = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "queuebot_pending_swaps",
		Help: "Number of swap requests awaiting a response.",
	})
)
