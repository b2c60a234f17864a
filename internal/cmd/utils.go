package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/helvethink/sevalla-action/internal/logging"
	"github.com/helvethink/sevalla-action/pkg/action"
	"github.com/helvethink/sevalla-action/pkg/config"
)

var start time.Time

// newReporter builds the Reporter runs report to.
var newReporter = func() action.Reporter {
	return action.NewWorkflow()
}

// configure loads the optional configuration file, applies the CLI flags and
// runner inputs over it, validates the result and sets up logging.
func configure(ctx *cli.Context) (cfg config.Config, err error) {
	start = startTime(ctx)

	if path := ctx.String("config"); path != "" {
		if cfg, err = config.ParseFile(path); err != nil {
			return
		}
	} else {
		cfg = config.New()
	}

	cfg.Global = config.Global{
		RunID:     uuid.New(),
		StartTime: start,
		Version:   ctx.App.Version,
	}

	configCliOverrides(ctx, &cfg)

	if err = cfg.MergeInputs(parseInputFlags(ctx)); err != nil {
		return
	}

	if err = cfg.Validate(); err != nil {
		return
	}

	if err = logger.Configure(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}); err != nil {
		return
	}

	log.WithFields(
		log.Fields{
			"action":             cfg.Inputs.Action,
			"run-id":             cfg.Global.RunID.String(),
			"sevalla-endpoint":   cfg.Sevalla.URL,
			"sevalla-rate-limit": fmt.Sprintf("%drps", cfg.Sevalla.MaximumRequestsPerSecond),
		},
	).Debug("configured")

	log.WithFields(config.SchedulerConfig{
		Interval:   cfg.Sevalla.PollInterval,
		MaxRetries: cfg.Sevalla.MaxRetries,
	}.Log()).Debug("status polling")

	log.Trace(cfg.ToYAML())

	return
}

func startTime(ctx *cli.Context) time.Time {
	if t, ok := ctx.App.Metadata["startTime"].(time.Time); ok {
		return t
	}

	return time.Now()
}

// parseInputFlags reads the action inputs. Unset inputs stay empty so that they
// never override the configuration file.
func parseInputFlags(ctx *cli.Context) config.Inputs {
	return config.Inputs{
		Action:        ctx.String("action"),
		Token:         ctx.String("sevalla-token"),
		AppID:         ctx.String("app-id"),
		StaticSiteID:  ctx.String("static-site-id"),
		SourceAppID:   ctx.String("source-app-id"),
		TargetAppIDs:  ctx.String("target-app-ids"),
		Branch:        ctx.String("branch"),
		DockerImage:   ctx.String("docker-image"),
		IsRestart:     ctx.String("is-restart"),
		DeployHookURL: ctx.String("deploy-hook-url"),
		WaitForFinish: ctx.String("wait-for-finish"),
	}
}

// exit logs the execution time and error (if any), then returns a CLI exit code.
func exit(exitCode int, err error) cli.ExitCoder {
	defer log.WithFields(
		log.Fields{
			"execution-time": time.Since(start), // nolint: govet
		},
	).Debug("exited..")

	if err != nil {
		log.WithError(err).Debug("run failed")
	}

	return cli.Exit("", exitCode)
}

// ExecWrapper gracefully logs and exits our `run` functions.
func ExecWrapper(f func(ctx *cli.Context) (int, error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return exit(f(ctx))
	}
}

// configCliOverrides overrides configuration fields with command-line flags if present.
func configCliOverrides(ctx *cli.Context, cfg *config.Config) {
	if level := ctx.String("log-level"); level != "" {
		cfg.Log.Level = level
	}

	if format := ctx.String("log-format"); format != "" {
		cfg.Log.Format = format
	}

	if apiURL := ctx.String("api-url"); apiURL != "" {
		cfg.Sevalla.URL = apiURL
	}

	if redisURL := ctx.String("redis-url"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}

	if pushgatewayURL := ctx.String("pushgateway-url"); pushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = pushgatewayURL
	}

	if endpoint := ctx.String("otel-grpc-endpoint"); endpoint != "" {
		cfg.OpenTelemetry.GRPCEndpoint = endpoint
	}
}
