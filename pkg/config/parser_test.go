package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTypeFromFileExtension(t *testing.T) {
	for _, name := range []string{"config.yml", "config.yaml"} {
		f, err := GetTypeFromFileExtension(name)
		assert.NoError(t, err)
		assert.Equal(t, FormatYAML, f)
	}

	_, err := GetTypeFromFileExtension("config.json")
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sevalla.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  format: json
sevalla:
  url: https://sevalla.example.com/v2
  poll_interval: 2s
  max_retries: 10
inputs:
  action: promote-app
  source_app_id: src
  target_app_ids: t1,t2
`), 0o600))

	c, err := ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "https://sevalla.example.com/v2", c.Sevalla.URL)
	assert.Equal(t, "https://sevalla.example.com/v2", c.Sevalla.HealthURL)
	assert.Equal(t, 2*time.Second, c.Sevalla.PollInterval)
	assert.Equal(t, 10, c.Sevalla.MaxRetries)
	assert.Equal(t, 5, c.Sevalla.MaximumRequestsPerSecond)
	assert.Equal(t, "promote-app", c.Inputs.Action)
	assert.Equal(t, []string{"t1", "t2"}, c.Inputs.Targets())
	assert.Equal(t, "true", c.Inputs.WaitForFinish)
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile("sevalla.toml")
	assert.Error(t, err)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("sevalla: [\n"), 0o600))

	_, err = ParseFile(path)
	assert.Error(t, err)
}

func TestParseDefaultURLs(t *testing.T) {
	c, err := Parse(FormatYAML, []byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, defaultSevallaURL, c.Sevalla.URL)
	assert.Equal(t, defaultSevallaHealthURL, c.Sevalla.HealthURL)
}
