package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/helvethink/sevalla-action/internal/cmd"
)

// Run handles the instantiation of the CLI application.
func Run(version string, args []string) {
	if err := NewApp(version, time.Now()).Run(args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// inputEnvVars returns the environment variables the runner sets for an input:
// INPUT_<NAME> with hyphens kept, and the underscore form for shells.
func inputEnvVars(name string) []string {
	upper := strings.ToUpper(strings.ReplaceAll(name, " ", "_"))

	vars := []string{"INPUT_" + upper}
	if strings.Contains(upper, "-") {
		vars = append(vars, "INPUT_"+strings.ReplaceAll(upper, "-", "_"))
	}

	return vars
}

func inputFlag(name, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    name,
		EnvVars: inputEnvVars(name),
		Usage:   usage,
	}
}

// NewApp configures the CLI application.
func NewApp(version string, start time.Time) (app *cli.App) {
	app = cli.NewApp()
	app.Name = "sevalla-action"
	app.Version = version
	app.Usage = "Deploy and promote Sevalla applications and static sites from CI"
	app.EnableBashCompletion = true

	app.Flags = cli.FlagsByName{
		inputFlag("config", "`path` to an optional YAML configuration file"),
		inputFlag("log-level", "log `level` (trace, debug, info, warning, error, fatal, panic)"),
		inputFlag("log-format", "log `format` (text or json)"),
		inputFlag("api-url", "Sevalla API `url`"),
		inputFlag("redis-url", "redis `url` used to share the API rate limit between runs"),
		inputFlag("pushgateway-url", "prometheus pushgateway `url` run metrics are pushed to"),
		inputFlag("otel-grpc-endpoint", "opentelemetry collector gRPC `endpoint`"),

		inputFlag("action", "`action` to run: deploy-app, promote-app or deploy-static-site"),
		inputFlag("sevalla-token", "Sevalla API `token`"),
		inputFlag("app-id", "`id` of the application to deploy"),
		inputFlag("static-site-id", "`id` of the static site to deploy"),
		inputFlag("source-app-id", "`id` of the application to promote"),
		inputFlag("target-app-ids", "comma separated `ids` of the applications to promote to"),
		inputFlag("branch", "`branch` to deploy"),
		inputFlag("docker-image", "docker `image` to deploy"),
		inputFlag("is-restart", "\"true\" to restart the application without rebuilding it"),
		inputFlag("deploy-hook-url", "deploy hook `url`, replaces the token and application id"),
		inputFlag("wait-for-finish", "\"false\" to return as soon as the operation is triggered"),
	}

	app.Action = cmd.ExecWrapper(cmd.Run)

	app.Commands = cli.CommandsByName{
		{
			Name:   "run",
			Usage:  "trigger the configured action and wait for it to finish",
			Action: cmd.ExecWrapper(cmd.Run),
		},
		{
			Name:   "validate",
			Usage:  "validate the configuration and the inputs without calling the Sevalla API",
			Action: cmd.ExecWrapper(cmd.Validate),
		},
	}

	app.Metadata = map[string]interface{}{
		"startTime": start,
	}

	return
}
