package sevalla

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/helvethink/sevalla-action/pkg/schemas"
)

// Operation labels used in RequestError messages.
const (
	OperationDeployHook   = "Deploy hook"
	OperationDeployment   = "Deployment"
	OperationStaticSite   = "Static site deployment"
	OperationPromotion    = "Promotion"
	OperationStatusSuffix = " status"
)

const (
	applicationsPath = "applications"
	deploymentsPath  = "deployments"
	staticSitesPath  = "static-sites"
	promotePath      = "promote"
)

// TriggerAppDeployment starts a deployment of an application through the API.
func (c *Client) TriggerAppDeployment(ctx context.Context, r schemas.AppDeploymentRequest) (schemas.Deployment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:TriggerAppDeployment")
	defer span.End()
	span.SetAttributes(attribute.String("app_id", r.AppID))

	var env schemas.DeploymentEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationDeployment, http.MethodPost, c.endpoint(applicationsPath, deploymentsPath), r, &env); err != nil {
		return schemas.Deployment{}, err
	}

	if env.Deployment.ID == "" {
		return schemas.Deployment{}, ErrMissingIdentifier
	}

	return env.Deployment, nil
}

// TriggerDeployHook starts a deployment by calling a deploy hook URL.
// The request has no body and no credentials.
func (c *Client) TriggerDeployHook(ctx context.Context, hookURL string) (schemas.Deployment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:TriggerDeployHook")
	defer span.End()

	var env schemas.DeploymentEnvelope
	if err := c.do(ctx, c.HookClient, OperationDeployHook, http.MethodPost, hookURL, nil, &env); err != nil {
		return schemas.Deployment{}, err
	}

	if env.Deployment.ID == "" {
		return schemas.Deployment{}, ErrMissingIdentifier
	}

	return env.Deployment, nil
}

// GetAppDeployment returns the current state of an application deployment.
func (c *Client) GetAppDeployment(ctx context.Context, id string) (schemas.Deployment, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "sevalla:GetAppDeployment")
	defer span.End()
	span.SetAttributes(attribute.String("deployment_id", id))

	var env schemas.DeploymentEnvelope
	if err := c.do(ctx, c.HTTPClient, OperationDeployment+OperationStatusSuffix, http.MethodGet, c.endpoint(applicationsPath, deploymentsPath, id), nil, &env); err != nil {
		return schemas.Deployment{}, err
	}

	return env.Deployment, nil
}
