package sevalla

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// TriggerStaticSiteDeployment starts a deployment of a static site.
func (c *Client) TriggerStaticSiteDeployment(ctx context.Context, r schemas.StaticSiteDeploymentRequest) (schemas.Deployment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:TriggerStaticSiteDeployment")
	defer span.End()
	span.SetAttributes(attribute.String("static_site_id", r.StaticSiteID))

	var env schemas.DeploymentEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationStaticSite, http.MethodPost, c.endpoint(staticSitesPath, deploymentsPath), r, &env); err != nil {
		return schemas.Deployment{}, err
	}

	if env.Deployment.ID == "" {
		return schemas.Deployment{}, ErrMissingIdentifier
	}

	return env.Deployment, nil
}

// GetStaticSiteDeployment returns the current state of a static site deployment.
func (c *Client) GetStaticSiteDeployment(ctx context.Context, id string) (schemas.Deployment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:GetStaticSiteDeployment")
	defer span.End()
	span.SetAttributes(attribute.String("deployment_id", id))

	var env schemas.DeploymentEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationStaticSite+OperationStatusSuffix, http.MethodGet, c.endpoint(staticSitesPath, deploymentsPath, id), nil, &env); err != nil {
		return schemas.Deployment{}, err
	}

	return env.Deployment, nil
}
