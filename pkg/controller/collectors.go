package controller

import "github.com/prometheus/client_golang/prometheus"

var (
	// actionLabels identify the action a metric belongs to.
	actionLabels = []string{"action"}

	// operationLabels identify the tracked remote operation.
	operationLabels = []string{"action", "kind"}

	// statusLabels add the last observed remote status.
	statusLabels = []string{"action", "kind", "status"}
)

// NewCollectorAPIRequestsCount returns a gauge of the Sevalla API requests sent during the run.
func NewCollectorAPIRequestsCount() prometheus.Collector {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sevalla_action_api_requests_count",
			Help: "Sevalla API requests count",
		},
		[]string{},
	)
}

// NewCollectorPollAttemptsCount returns a counter of status polls, transient failures included.
func NewCollectorPollAttemptsCount() prometheus.Collector {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sevalla_action_poll_attempts_count",
			Help: "Number of status polls sent while waiting for an operation",
		},
		operationLabels,
	)
}

// NewCollectorPollFailuresCount returns a counter of status polls which could not be read.
func NewCollectorPollFailuresCount() prometheus.Collector {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sevalla_action_poll_failures_count",
			Help: "Number of status polls which failed and were retried",
		},
		operationLabels,
	)
}

// NewCollectorStatus returns a gauge set to 1 for the last observed status of an operation.
func NewCollectorStatus() prometheus.Collector {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sevalla_action_status",
			Help: "Last observed status of the operation",
		},
		statusLabels,
	)
}

// NewCollectorRunDurationSeconds returns a gauge of the run duration.
func NewCollectorRunDurationSeconds() prometheus.Collector {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sevalla_action_run_duration_seconds",
			Help: "Duration of the action run in seconds",
		},
		actionLabels,
	)
}

// NewCollectorRunSuccess returns a gauge set to 1 when the run succeeded and 0 otherwise.
func NewCollectorRunSuccess() prometheus.Collector {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sevalla_action_run_success",
			Help: "Whether the action run succeeded",
		},
		actionLabels,
	)
}
