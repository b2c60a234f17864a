package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/helvethink/sevalla-action/pkg/poller"
)

// Step outputs.
const (
	OutputDeploymentID = "deployment-id"
	OutputPromotionID  = "promotion-id"
)

const readinessTimeout = 5 * time.Second

// preflight checks that the Sevalla API answers before anything is triggered.
func (c *Controller) preflight(ctx context.Context) error {
	if !c.Config.Sevalla.EnableHealthCheck {
		log.WithContext(ctx).
			Debug("Sevalla health check has been disabled, skipping preflight")
		return nil
	}

	check := healthcheck.Timeout(c.Sevalla.ReadinessCheck(ctx), readinessTimeout)
	if err := check(); err != nil {
		return errors.Wrap(err, "sevalla api is not ready")
	}

	return nil
}

// track publishes the identifier of a triggered operation, then waits for
// the operation to finish unless waiting was disabled.
func (c *Controller) track(ctx context.Context, actionName, output string, t poller.Target) error {
	if err := c.Reporter.SetOutput(output, t.ID); err != nil {
		return errors.Wrapf(err, "setting %s output", output)
	}

	c.Reporter.Info(fmt.Sprintf("%s (id: %s) triggered successfully!", t.Kind.Title(), t.ID))

	fields := log.Fields{
		"action":         actionName,
		"operation-kind": t.Kind,
		"operation-id":   t.ID,
	}

	if !c.Config.Inputs.Wait() {
		log.WithContext(ctx).
			WithFields(fields).
			Info("wait-for-finish is disabled, not polling")
		return nil
	}

	log.WithContext(ctx).
		WithFields(fields).
		WithFields(c.schedulerConfig().Log()).
		Debug("polling operation status")

	fetch := t.Fetch
	t.Fetch = func(ctx context.Context, id string) (string, error) {
		status, err := fetch(ctx, id)
		c.Registry.ObservePoll(actionName, t.Kind, status, err)

		return status, err
	}

	return c.Poller.Poll(ctx, t)
}
