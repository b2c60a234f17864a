package sevalla

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// PromoteApp promotes the source application to every target as one batch.
func (c *Client) PromoteApp(ctx context.Context, r schemas.PromotionRequest) (schemas.Promotion, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:PromoteApp")
	defer span.End()
	span.SetAttributes(
		attribute.String("source_app_id", r.SourceAppID),
		attribute.StringSlice("target_app_ids", r.TargetAppIDs),
	)

	var env schemas.PromotionEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationPromotion, http.MethodPost, c.endpoint(applicationsPath, promotePath), r, &env); err != nil {
		return schemas.Promotion{}, err
	}

	if env.Promote.ID == "" {
		return schemas.Promotion{}, ErrMissingIdentifier
	}

	return env.Promote, nil
}

// GetPromotion returns the current state of a promotion batch.
func (c *Client) GetPromotion(ctx context.Context, id string) (schemas.Promotion, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:GetPromotion")
	defer span.End()
	span.SetAttributes(attribute.String("promotion_id", id))

	var env schemas.PromotionEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationPromotion+OperationStatusSuffix, http.MethodGet, c.endpoint(applicationsPath, promotePath, id), nil, &env); err != nil {
		return schemas.Promotion{}, err
	}

	return env.Promote, nil
}
