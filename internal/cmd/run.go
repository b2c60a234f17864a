package cmd

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/helvethink/sevalla-action/pkg/controller"
)

// Run triggers the configured action and waits for it to finish.
// Every failure is reported to the runner before returning.
func Run(cliCtx *cli.Context) (int, error) {
	reporter := newReporter()

	cfg, err := configure(cliCtx)
	if err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	if err := controller.Validate(cfg.Inputs); err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	ctx := context.Background()
	defer controller.Shutdown(ctx)

	c, err := controller.New(ctx, cfg, cliCtx.App.Version, reporter)
	if err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	if err := c.Dispatch(ctx); err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	return 0, nil
}
