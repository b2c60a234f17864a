package controller

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/helvethink/sevalla-action/pkg/config"
	"github.com/helvethink/sevalla-action/pkg/poller"
	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// ValidateDeployApp checks the inputs of the deploy-app action.
// A deploy hook URL is enough on its own, otherwise a token and an application are required.
func ValidateDeployApp(in config.Inputs) error {
	if in.DeployHookURL != "" {
		return nil
	}

	if in.Token == "" || in.AppID == "" {
		return config.NewConfigurationError("sevalla-token and app-id are required")
	}

	return nil
}

// DeployApp triggers an application deployment, through its deploy hook when one
// is configured, and waits for it to finish.
func (c *Controller) DeployApp(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:DeployApp")
	defer span.End()

	in := c.Config.Inputs

	var (
		d   schemas.Deployment
		err error
	)

	if in.DeployHookURL != "" {
		log.WithContext(ctx).
			Debug("triggering deployment through deploy hook")

		d, err = c.Sevalla.TriggerDeployHook(ctx, in.DeployHookURL)
	} else {
		log.WithContext(ctx).
			WithFields(log.Fields{
				"app-id":       in.AppID,
				"branch":       in.Branch,
				"docker-image": in.DockerImage,
				"is-restart":   in.Restart(),
			}).
			Debug("triggering deployment")

		d, err = c.Sevalla.TriggerAppDeployment(ctx, schemas.NewAppDeploymentRequest(in.AppID, in.Branch, in.DockerImage, in.Restart()))
	}

	if err != nil {
		return err
	}

	return c.track(ctx, ActionDeployApp, OutputDeploymentID, poller.Target{
		ID:         d.ID,
		Kind:       schemas.OperationKindDeployment,
		Vocabulary: schemas.AppDeploymentVocabulary,
		Fetch: func(ctx context.Context, id string) (string, error) {
			d, err := c.Sevalla.GetAppDeployment(ctx, id)
			return d.Status, err
		},
	})
}
