package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/helvethink/sevalla-action/pkg/controller"
)

// Validate checks the configuration and the inputs of the selected action
// without any network call.
func Validate(cliCtx *cli.Context) (int, error) {
	reporter := newReporter()

	log.Debug("Validating configuration..")

	cfg, err := configure(cliCtx)
	if err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	if err := controller.Validate(cfg.Inputs); err != nil {
		reporter.SetFailed(err.Error())
		return 1, err
	}

	reporter.Info("Configuration is valid")

	return 0, nil
}
