package schemas

import (
	"go.openly.dev/pointy"
)

// AppDeploymentRequest is the body of POST /applications/deployments.
type AppDeploymentRequest struct {
	AppID       string  `json:"app_id"`
	Branch      *string `json:"branch,omitempty"`
	IsRestart   *bool   `json:"isRestart,omitempty"`
	DockerImage *string `json:"dockerImage,omitempty"`
}

// NewAppDeploymentRequest builds the request body. Empty branch and image are omitted,
// the restart flag is always sent.
func NewAppDeploymentRequest(appID, branch, dockerImage string, restart bool) AppDeploymentRequest {
	r := AppDeploymentRequest{
		AppID:     appID,
		IsRestart: pointy.Bool(restart),
	}

	if branch != "" {
		r.Branch = pointy.String(branch)
	}

	if dockerImage != "" {
		r.DockerImage = pointy.String(dockerImage)
	}

	return r
}

// StaticSiteDeploymentRequest is the body of POST /static-sites/deployments.
type StaticSiteDeploymentRequest struct {
	StaticSiteID string  `json:"static_site_id"`
	Branch       *string `json:"branch,omitempty"`
}

// NewStaticSiteDeploymentRequest builds the request body. An empty branch is omitted.
func NewStaticSiteDeploymentRequest(staticSiteID, branch string) StaticSiteDeploymentRequest {
	r := StaticSiteDeploymentRequest{StaticSiteID: staticSiteID}

	if branch != "" {
		r.Branch = pointy.String(branch)
	}

	return r
}

// Deployment is the deployment object returned by the Sevalla API.
type Deployment struct {
	ID     string `json:"id"`
	AppID  string `json:"app_id,omitempty"`
	Status string `json:"status"`
}

// DeploymentEnvelope wraps every deployment response: {"deployment": {...}}.
type DeploymentEnvelope struct {
	Deployment Deployment `json:"deployment"`
}
