package controller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"google.golang.org/grpc"

	"github.com/helvethink/sevalla-action/pkg/action"
	"github.com/helvethink/sevalla-action/pkg/config"
	"github.com/helvethink/sevalla-action/pkg/poller"
	"github.com/helvethink/sevalla-action/pkg/ratelimit"
	"github.com/helvethink/sevalla-action/pkg/sevalla"
)

const tracerName = "sevalla-action"

// Controller holds everything one action run needs: the configuration,
// the Sevalla client, the poller and the reporter talking to the CI runner.
type Controller struct {
	Config   config.Config   // Resolved configuration, built once by the CLI
	Redis    *redis.Client   // Optional Redis client backing the shared rate limiter
	Sevalla  *sevalla.Client // Sevalla API client
	Poller   *poller.Poller  // Waits for operations to reach a terminal status
	Reporter action.Reporter // Outputs, log lines and failures for the runner
	Registry *Registry       // Run metrics, pushed when a Pushgateway is configured

	// UUID identifies this run in logs and in the Pushgateway grouping key.
	UUID uuid.UUID
}

// New creates and initializes a new Controller.
// It sets up tracing, the optional Redis connection, the Sevalla client and the poller.
func New(ctx context.Context, cfg config.Config, version string, reporter action.Reporter) (c Controller, err error) {
	c.Config = cfg
	c.Reporter = reporter
	c.UUID = cfg.Global.RunID

	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}

	if err = configureTracing(ctx, cfg.OpenTelemetry.GRPCEndpoint); err != nil {
		return
	}

	if err = c.configureRedis(ctx, cfg.Redis.URL); err != nil {
		return
	}

	if err = c.configureSevalla(cfg.Sevalla, cfg.Inputs.Token, version); err != nil {
		return
	}

	c.Poller = poller.New(cfg.Sevalla.PollInterval, cfg.Sevalla.MaxRetries, reporter)
	c.Registry = NewRegistry(ctx)

	return
}

// configureTracing sets up OpenTelemetry tracing via a gRPC endpoint.
// If no endpoint is provided, tracing support is skipped.
func configureTracing(ctx context.Context, grpcEndpoint string) error {
	if len(grpcEndpoint) == 0 {
		log.Debug("opentelemetry.grpc_endpoint is not configured, skipping open telemetry support")
		return nil
	}

	log.WithFields(log.Fields{
		"opentelemetry_grpc_endpoint": grpcEndpoint,
	}).Info("opentelemetry gRPC endpoint provided, initializing connection..")

	traceClient := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(grpcEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithBlock()), // nolint: staticcheck
	)

	traceExp, err := otlptrace.New(ctx, traceClient)
	if err != nil {
		return err
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String("sevalla-action"),
		),
	)
	if err != nil {
		return err
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExp)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp),
	)

	otel.SetTracerProvider(tracerProvider)

	return nil
}

// Shutdown flushes the spans buffered by the tracer provider, if one was configured.
func Shutdown(ctx context.Context) {
	tp, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	if !ok {
		return
	}

	if err := tp.Shutdown(ctx); err != nil {
		log.WithContext(ctx).
			WithError(err).
			Warn("flushing traces")
	}
}

// configureSevalla initializes the Sevalla client.
// Requests are paced by a Redis limiter when Redis is available, by a local one otherwise.
func (c *Controller) configureSevalla(cfg config.Sevalla, token, version string) (err error) {
	var (
		rl         ratelimit.Limiter
		hookPeriod time.Duration
	)

	if cfg.MaximumRequestsPerSecond > 0 {
		hookPeriod = time.Second / time.Duration(cfg.MaximumRequestsPerSecond)
	}

	if c.Redis != nil {
		rl = ratelimit.NewRedisLimiter(c.Redis, cfg.MaximumRequestsPerSecond)
	} else {
		rl = ratelimit.NewLocalLimiter(cfg.MaximumRequestsPerSecond, cfg.BurstableRequestsPerSecond)
	}

	c.Sevalla, err = sevalla.NewClient(sevalla.ClientConfig{
		URL:              cfg.URL,
		Token:            token,
		DisableTLSVerify: !cfg.EnableTLSVerify,
		UserAgentVersion: version,
		RateLimiter:      rl,
		ReadinessURL:     cfg.HealthURL,
		Timeout:          cfg.RequestTimeout,
		HookRatePeriod:   hookPeriod,
	})

	return
}

// configureRedis initializes the Redis client using the provided URL and sets up OpenTelemetry tracing instrumentation.
func (c *Controller) configureRedis(ctx context.Context, url string) (err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "controller:configureRedis")
	defer span.End()

	if len(url) <= 0 {
		log.Debug("redis url is not configured, skipping configuration & using local rate limiter")
		return
	}

	log.Info("redis url configured, initializing connection..")

	var opt *redis.Options

	if opt, err = redis.ParseURL(url); err != nil {
		return
	}

	c.Redis = redis.NewClient(opt)

	if err = redisotel.InstrumentTracing(c.Redis); err != nil {
		return
	}

	if _, err := c.Redis.Ping(ctx).Result(); err != nil {
		return errors.Wrap(err, "connecting to redis")
	}

	log.Info("connected to redis")

	return
}
