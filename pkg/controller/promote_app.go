package controller

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/helvethink/sevalla-action/pkg/config"
	"github.com/helvethink/sevalla-action/pkg/poller"
	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// ValidatePromoteApp checks the inputs of the promote-app action.
func ValidatePromoteApp(in config.Inputs) error {
	if in.Token == "" || in.SourceAppID == "" || len(in.Targets()) == 0 {
		return config.NewConfigurationError("sevalla-token, source-app-id, target-app-ids required")
	}

	return nil
}

// PromoteApp promotes the source application to every target application as a
// single batch and waits for the batch to finish.
func (c *Controller) PromoteApp(ctx context.Context) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:PromoteApp")
	defer span.End()

	in := c.Config.Inputs
	r := schemas.PromotionRequest{
		SourceAppID:  in.SourceAppID,
		TargetAppIDs: in.Targets(),
	}

	log.WithContext(ctx).
		WithFields(log.Fields{
			"source-app-id":  r.SourceAppID,
			"target-app-ids": r.TargetAppIDs,
		}).
		Debug("triggering promotion")

	p, err := c.Sevalla.PromoteApp(ctx, r)
	if err != nil {
		return err
	}

	return c.track(ctx, ActionPromoteApp, OutputPromotionID, poller.Target{
		ID:         p.ID,
		Kind:       schemas.OperationKindPromotion,
		Vocabulary: schemas.PromotionVocabulary,
		Fetch: func(ctx context.Context, id string) (string, error) {
			p, err := c.Sevalla.GetPromotion(ctx, id)
			return p.Status, err
		},
	})
}
