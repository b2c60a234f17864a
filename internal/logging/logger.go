package logger

import (
	"fmt"
	"io"
	stdlibLog "log"
	"os"
	"sync"

	"github.com/go-logr/stdr"
	log "github.com/sirupsen/logrus"
	"github.com/uptrace/opentelemetry-go-extra/otellogrus"
	"go.opentelemetry.io/otel"
)

// Config holds logging configuration options.
type Config struct {
	Level        string    // Logging level (e.g., "info", "debug", "error")
	Format       string    // Logging format ("text" or "json")
	ReportCaller bool      // Whether to include the calling method/file in the logs
	Output       io.Writer // Defaults to stdout, which the runner shows in the job log
}

var hooksOnce sync.Once

// Configure sets up the logger according to the provided Config settings.
func Configure(c Config) (err error) {
	parsedLevel, err := log.ParseLevel(c.Level)
	if err != nil {
		return
	}

	var formatter log.Formatter

	switch c.Format {
	case "text":
		formatter = &log.TextFormatter{
			FullTimestamp: true,
		}
	case "json":
		formatter = &log.JSONFormatter{}
	default:
		return fmt.Errorf("invalid log format '%s'", c.Format)
	}

	output := c.Output
	if output == nil {
		output = os.Stdout
	}

	log.SetLevel(parsedLevel)
	log.SetFormatter(formatter)
	log.SetReportCaller(c.ReportCaller)
	log.SetOutput(output)

	hooksOnce.Do(configureHooks)

	return
}

// configureHooks attaches warnings and errors to the active span, and sends
// the opentelemetry SDK internal logs to logrus.
func configureHooks() {
	log.AddHook(otellogrus.NewHook(otellogrus.WithLevels(
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
		log.WarnLevel,
	)))

	otel.SetLogger(stdr.New(stdlibLog.New(log.StandardLogger().WriterLevel(log.WarnLevel), "otel", 0)))
}
