package config

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// validate is a global validator instance used to validate struct fields based on tags.
var validate *validator.Validate

// Config holds all the configuration parameters necessary for properly configuring the action.
type Config struct {
	Global        Global        `yaml:",omitempty"`    // Global contains settings resolved at runtime, never read from the file.
	Log           Log           `yaml:"log"`           // Log holds configuration related to logging.
	OpenTelemetry OpenTelemetry `yaml:"opentelemetry"` // OpenTelemetry contains configuration settings for OpenTelemetry integration.
	Sevalla       Sevalla       `yaml:"sevalla"`       // Sevalla contains the platform API settings.
	Redis         Redis         `yaml:"redis"`         // Redis holds configuration parameters for the shared rate limiter.
	Metrics       Metrics       `yaml:"metrics"`       // Metrics holds the Pushgateway settings.
	Inputs        Inputs        `yaml:"inputs"`        // Inputs are the action inputs, usually provided by the CI runner.
}

// Log holds configuration settings related to runtime logging.
type Log struct {
	// Level sets the logging verbosity level.
	// Valid values: trace, debug, info, warning, error, fatal, panic.
	// Defaults to "info".
	Level string `default:"info" validate:"required,oneof=trace debug info warning error fatal panic" yaml:"level"`

	// Format sets the output format of the logs.
	// Valid values: "text" or "json".
	// Defaults to "text".
	Format string `default:"text" validate:"oneof=text json" yaml:"format"`
}

// OpenTelemetry holds configuration related to OpenTelemetry integration.
type OpenTelemetry struct {
	// GRPCEndpoint is the gRPC address of the OpenTelemetry collector to send traces to.
	GRPCEndpoint string `yaml:"grpc_endpoint"`
}

// Sevalla holds the configuration needed to talk to the Sevalla API.
type Sevalla struct {
	// URL of the Sevalla API, including the version prefix.
	URL string `default:"https://api.sevalla.com/v2" validate:"required,url" yaml:"url"`

	// HealthURL is requested before the operation starts when EnableHealthCheck is set.
	HealthURL string `default:"https://api.sevalla.com" validate:"required,url" yaml:"health_url"`

	EnableHealthCheck          bool          `default:"false" yaml:"enable_health_check"`                         // EnableHealthCheck toggles the preflight request against HealthURL.
	EnableTLSVerify            bool          `default:"true" yaml:"enable_tls_verify"`                            // EnableTLSVerify toggles TLS certificate verification.
	MaximumRequestsPerSecond   int           `default:"5" validate:"gte=1" yaml:"maximum_requests_per_second"`    // MaximumRequestsPerSecond limits the API request rate.
	BurstableRequestsPerSecond int           `default:"5" validate:"gte=1" yaml:"burstable_requests_per_second"`  // BurstableRequestsPerSecond allows short bursts above the normal rate.
	RequestTimeout             time.Duration `default:"30s" validate:"gt=0" yaml:"request_timeout"`               // RequestTimeout bounds a single HTTP round trip.
	PollInterval               time.Duration `default:"5s" validate:"gte=0" yaml:"poll_interval"`                 // PollInterval is the delay before every status poll.
	MaxRetries                 int           `default:"1000" validate:"gte=1" yaml:"max_retries"`                 // MaxRetries is the poll attempt ceiling.
}

// Redis holds the configuration for connecting to a Redis instance.
type Redis struct {
	// URL is the connection string used to connect to the Redis server.
	// When set, the API rate limit is shared by every run using the same Redis.
	// Format example: redis[s]://[:password@]host[:port][/db-number][?option=value]
	URL string `yaml:"url"`
}

// Metrics holds the configuration for pushing run metrics to a Prometheus Pushgateway.
type Metrics struct {
	// PushgatewayURL disables the push when empty.
	PushgatewayURL string `validate:"omitempty,url" yaml:"pushgateway_url"`

	// Job is the Pushgateway job name.
	Job string `default:"sevalla_action" validate:"required" yaml:"job"`
}

// UnmarshalYAML applies defaults before decoding so that omitted keys keep their default values.
func (c *Config) UnmarshalYAML(v *yaml.Node) (err error) {
	type localConfig Config

	_cfg := localConfig{}
	defaults.MustSet(&_cfg)

	if err = v.Decode(&_cfg); err != nil {
		return
	}

	*c = Config(_cfg)

	return
}

// ToYAML serializes the Config object into a YAML formatted string.
// Before serialization, it masks sensitive data to avoid leaking secrets.
func (c Config) ToYAML() string {
	c.Global = Global{}

	if c.Inputs.Token != "" {
		c.Inputs.Token = "*******"
	}

	if c.Inputs.DeployHookURL != "" {
		c.Inputs.DeployHookURL = "*******"
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		panic(err)
	}

	return string(b)
}

// Validate checks if the Config struct's fields are valid according to
// the validation rules defined via struct tags.
func (c Config) Validate() error {
	if validate == nil {
		validate = validator.New()
	}

	if err := validate.Struct(c); err != nil {
		return &ConfigurationError{Message: err.Error()}
	}

	return nil
}

// SchedulerConfig describes the polling cadence, for display purposes.
type SchedulerConfig struct {
	Interval   time.Duration
	MaxRetries int
}

// Log returns a structured representation of the polling configuration
// to help display it in logs for the end user.
func (sc SchedulerConfig) Log() log.Fields {
	return log.Fields{
		"poll-interval": sc.Interval.String(),
		"max-retries":   sc.MaxRetries,
		"max-duration":  (sc.Interval * time.Duration(sc.MaxRetries)).String(),
	}
}

// New returns a new Config instance with default parameters set.
func New() (c Config) {
	defaults.MustSet(&c)
	return
}
