package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	c := New()

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "https://api.sevalla.com/v2", c.Sevalla.URL)
	assert.Equal(t, "https://api.sevalla.com", c.Sevalla.HealthURL)
	assert.False(t, c.Sevalla.EnableHealthCheck)
	assert.True(t, c.Sevalla.EnableTLSVerify)
	assert.Equal(t, 5*time.Second, c.Sevalla.PollInterval)
	assert.Equal(t, 1000, c.Sevalla.MaxRetries)
	assert.Equal(t, 30*time.Second, c.Sevalla.RequestTimeout)
	assert.Equal(t, "sevalla_action", c.Metrics.Job)
	assert.Equal(t, "true", c.Inputs.WaitForFinish)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(c *Config)
	}{
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
		{"api url", func(c *Config) { c.Sevalla.URL = "not a url" }},
		{"max retries", func(c *Config) { c.Sevalla.MaxRetries = 0 }},
		{"poll interval", func(c *Config) { c.Sevalla.PollInterval = -time.Second }},
		{"pushgateway url", func(c *Config) { c.Metrics.PushgatewayURL = "nope" }},
		{"deploy hook url", func(c *Config) { c.Inputs.DeployHookURL = "nope" }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			tc.mutate(&c)

			err := c.Validate()
			require.Error(t, err)

			var ce *ConfigurationError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestToYAMLMasksSecrets(t *testing.T) {
	c := New()
	c.Inputs.Token = "secret"
	c.Inputs.DeployHookURL = "https://hooks.example.com/secret"

	out := c.ToYAML()
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "*******")

	var decoded Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, c.Sevalla.URL, decoded.Sevalla.URL)
}

func TestSchedulerConfigLog(t *testing.T) {
	fields := SchedulerConfig{Interval: 5 * time.Second, MaxRetries: 1000}.Log()

	assert.Equal(t, "5s", fields["poll-interval"])
	assert.Equal(t, 1000, fields["max-retries"])
	assert.Equal(t, "1h23m20s", fields["max-duration"])
}

func TestMergeInputs(t *testing.T) {
	c := New()
	c.Inputs.Action = "deploy-app"
	c.Inputs.AppID = "from-file"
	c.Inputs.Branch = "main"

	require.NoError(t, c.MergeInputs(Inputs{AppID: "from-runner", WaitForFinish: "false"}))

	assert.Equal(t, "deploy-app", c.Inputs.Action)
	assert.Equal(t, "from-runner", c.Inputs.AppID)
	assert.Equal(t, "main", c.Inputs.Branch)
	assert.Equal(t, "false", c.Inputs.WaitForFinish)
}

func TestConfigurationError(t *testing.T) {
	assert.EqualError(t, NewConfigurationError("Unknown action: x"), "Unknown action: x")
}
