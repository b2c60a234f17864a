package controller

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xeonx/timeago"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/exp/slices"

	"github.com/helvethink/sevalla-action/pkg/config"
	"github.com/helvethink/sevalla-action/pkg/sevalla"
)

// Supported values of the action input.
const (
	ActionDeployApp        = "deploy-app"
	ActionPromoteApp       = "promote-app"
	ActionDeployStaticSite = "deploy-static-site"
)

type handler struct {
	validate func(config.Inputs) error
	run      func(c *Controller, ctx context.Context) error
}

var handlers = map[string]handler{
	ActionDeployApp:        {validate: ValidateDeployApp, run: (*Controller).DeployApp},
	ActionPromoteApp:       {validate: ValidatePromoteApp, run: (*Controller).PromoteApp},
	ActionDeployStaticSite: {validate: ValidateDeployStaticSite, run: (*Controller).DeployStaticSite},
}

// Actions returns the supported action names, sorted.
func Actions() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func lookup(action string) (handler, error) {
	h, ok := handlers[action]
	if !ok {
		log.WithFields(log.Fields{
			"action":        action,
			"known-actions": Actions(),
		}).Debug("unknown action")

		return handler{}, config.NewConfigurationError(fmt.Sprintf("Unknown action: %s", action))
	}

	return h, nil
}

// Validate checks that the inputs name a known action and carry everything it needs.
// It never touches the network.
func Validate(in config.Inputs) error {
	h, err := lookup(in.Action)
	if err != nil {
		return err
	}

	return h.validate(in)
}

// Dispatch runs the handler selected by the action input.
// Any returned error is fatal to the run, its message is what the runner shows.
func (c *Controller) Dispatch(ctx context.Context) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:Dispatch")
	defer span.End()

	action := c.Config.Inputs.Action
	span.SetAttributes(attribute.String("action", action))

	h, err := lookup(action)
	if err != nil {
		return err
	}

	if err = h.validate(c.Config.Inputs); err != nil {
		return err
	}

	if err = c.preflight(ctx); err != nil {
		return err
	}

	start := time.Now()
	defer func() {
		c.summarize(ctx, action, start, err)
	}()

	return h.run(c, ctx)
}

// summarize logs the run outcome and pushes the run metrics.
func (c *Controller) summarize(ctx context.Context, action string, start time.Time, err error) {
	requests := c.Sevalla.RequestsCounter.Load()
	c.Registry.ObserveRun(action, requests, time.Since(start), err)

	entry := log.WithContext(ctx).
		WithFields(log.Fields{
			"action":       action,
			"run-id":       c.UUID.String(),
			"started":      timeago.English.Format(start),
			"api-requests": requests,
		})

	if err != nil {
		entry.WithError(err).Debug("run failed")
	} else {
		entry.Info("run completed")
	}

	if c.Config.Metrics.PushgatewayURL == "" {
		return
	}

	if pushErr := c.Registry.Push(ctx, sevalla.NewHTTPClient(!c.Config.Sevalla.EnableTLSVerify), c.Config.Metrics.PushgatewayURL, c.Config.Metrics.Job, c.UUID.String()); pushErr != nil {
		log.WithContext(ctx).
			WithError(pushErr).
			Warn("pushing run metrics")
	}
}

// schedulerConfig describes the polling cadence for display.
func (c *Controller) schedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		Interval:   c.Poller.Interval,
		MaxRetries: c.Poller.MaxRetries,
	}
}
