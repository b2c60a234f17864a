package controller

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/helvethink/sevalla-action/pkg/config"
	"github.com/helvethink/sevalla-action/pkg/poller"
	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// ValidateDeployStaticSite checks the inputs of the deploy-static-site action.
func ValidateDeployStaticSite(in config.Inputs) error {
	if in.Token == "" || in.StaticSiteID == "" {
		return config.NewConfigurationError("sevalla-token and static-site-id are required")
	}

	return nil
}

// DeployStaticSite triggers a static site deployment and waits for it to finish.
func (c *Controller) DeployStaticSite(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:DeployStaticSite")
	defer span.End()

	in := c.Config.Inputs

	log.WithContext(ctx).
		WithFields(log.Fields{
			"static-site-id": in.StaticSiteID,
			"branch":         in.Branch,
		}).
		Debug("triggering static site deployment")

	d, err := c.Sevalla.TriggerStaticSiteDeployment(ctx, schemas.NewStaticSiteDeploymentRequest(in.StaticSiteID, in.Branch))
	if err != nil {
		return err
	}

	return c.track(ctx, ActionDeployStaticSite, OutputDeploymentID, poller.Target{
		ID:         d.ID,
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.StaticSiteDeploymentVocabulary,
		Fetch: func(ctx context.Context, id string) (string, error) {
			d, err := c.Sevalla.GetStaticSiteDeployment(ctx, id)
			return d.Status, err
		},
	})
}
