package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// Registry wraps a prometheus.Registry holding the metrics of one run.
type Registry struct {
	*prometheus.Registry

	Collectors struct {
		APIRequestsCount   prometheus.Collector
		PollAttemptsCount  prometheus.Collector
		PollFailuresCount  prometheus.Collector
		Status             prometheus.Collector
		RunDurationSeconds prometheus.Collector
		RunSuccess         prometheus.Collector
	}
}

// NewRegistry initializes and returns a new Registry with all collectors registered.
func NewRegistry(ctx context.Context) *Registry {
	r := &Registry{
		Registry: prometheus.NewRegistry(),
	}

	r.Collectors.APIRequestsCount = NewCollectorAPIRequestsCount()
	r.Collectors.PollAttemptsCount = NewCollectorPollAttemptsCount()
	r.Collectors.PollFailuresCount = NewCollectorPollFailuresCount()
	r.Collectors.Status = NewCollectorStatus()
	r.Collectors.RunDurationSeconds = NewCollectorRunDurationSeconds()
	r.Collectors.RunSuccess = NewCollectorRunSuccess()

	if err := r.RegisterCollectors(); err != nil {
		log.WithContext(ctx).
			Fatal(err)
	}

	return r
}

// RegisterCollectors adds every collector to the Prometheus registry.
func (r *Registry) RegisterCollectors() error {
	for _, c := range []prometheus.Collector{
		r.Collectors.APIRequestsCount,
		r.Collectors.PollAttemptsCount,
		r.Collectors.PollFailuresCount,
		r.Collectors.Status,
		r.Collectors.RunDurationSeconds,
		r.Collectors.RunSuccess,
	} {
		if err := r.Register(c); err != nil {
			return fmt.Errorf("could not add provided collector '%v' to the Prometheus registry: %v", c, err)
		}
	}

	return nil
}

// ObservePoll records one status poll and, when it was read, the observed status.
func (r *Registry) ObservePoll(action string, kind schemas.OperationKind, status string, err error) {
	labels := prometheus.Labels{"action": action, "kind": string(kind)}

	r.Collectors.PollAttemptsCount.(*prometheus.CounterVec).With(labels).Inc()

	if err != nil {
		r.Collectors.PollFailuresCount.(*prometheus.CounterVec).With(labels).Inc()
		return
	}

	gauge := r.Collectors.Status.(*prometheus.GaugeVec)
	gauge.DeletePartialMatch(labels)
	gauge.With(prometheus.Labels{"action": action, "kind": string(kind), "status": status}).Set(1)
}

// ObserveRun records the outcome of the run.
func (r *Registry) ObserveRun(action string, requests uint64, d time.Duration, err error) {
	labels := prometheus.Labels{"action": action}

	success := 1.0
	if err != nil {
		success = 0
	}

	r.Collectors.APIRequestsCount.(*prometheus.GaugeVec).With(prometheus.Labels{}).Set(float64(requests))
	r.Collectors.RunDurationSeconds.(*prometheus.GaugeVec).With(labels).Set(d.Seconds())
	r.Collectors.RunSuccess.(*prometheus.GaugeVec).With(labels).Set(success)
}

// Push sends the registry content to a Pushgateway, grouped by run ID.
func (r *Registry) Push(ctx context.Context, hc *http.Client, url, job, runID string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:Push")
	defer span.End()

	return push.New(url, job).
		Client(hc).
		Gatherer(r).
		Grouping("run_id", runID).
		PushContext(ctx)
}
