package config

import (
	"strings"
)

// Inputs holds the action inputs as the CI runner provides them: every value is a string.
// Boolean inputs keep the runner's string form and are interpreted by their accessors.
type Inputs struct {
	Action        string `yaml:"action"`                                   // Action selects the handler: deploy-app, promote-app or deploy-static-site.
	Token         string `yaml:"sevalla_token"`                            // Token is the bearer credential for the Sevalla API.
	AppID         string `yaml:"app_id"`                                   // AppID is the application to deploy.
	StaticSiteID  string `yaml:"static_site_id"`                           // StaticSiteID is the static site to deploy.
	SourceAppID   string `yaml:"source_app_id"`                            // SourceAppID is the application to promote from.
	TargetAppIDs  string `yaml:"target_app_ids"`                           // TargetAppIDs is a comma-separated list of applications to promote to.
	Branch        string `yaml:"branch"`                                   // Branch optionally overrides the deployed branch.
	DockerImage   string `yaml:"docker_image"`                             // DockerImage optionally deploys a prebuilt image.
	IsRestart     string `yaml:"is_restart"`                               // IsRestart is "true" to restart without rebuilding.
	DeployHookURL string `validate:"omitempty,url" yaml:"deploy_hook_url"` // DeployHookURL triggers an app deployment without a token.
	WaitForFinish string `default:"true" yaml:"wait_for_finish"`           // WaitForFinish is "false" to return right after the operation started.
}

// Restart reports whether the deployment should be a restart. Only the literal "true" enables it.
func (i Inputs) Restart() bool {
	return i.IsRestart == "true"
}

// Wait reports whether the run must poll until the operation is terminal.
// Only the literal "false" disables it.
func (i Inputs) Wait() bool {
	return i.WaitForFinish != "false"
}

// Targets splits TargetAppIDs on commas, trims whitespace and drops empty entries.
// The order of the input is preserved.
func (i Inputs) Targets() (targets []string) {
	for _, id := range strings.Split(i.TargetAppIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			targets = append(targets, id)
		}
	}

	return
}
