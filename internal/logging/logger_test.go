package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	for _, tc := range []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"text", Config{Level: "debug", Format: "text"}, false},
		{"json", Config{Level: "warning", Format: "json"}, false},
		{"invalid level", Config{Level: "verbose", Format: "text"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Configure(tc.config)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)

			level, _ := log.ParseLevel(tc.config.Level)
			assert.Equal(t, level, log.GetLevel())
		})
	}
}

func TestConfigureJSONOutput(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, Configure(Config{Level: "info", Format: "json", Output: out}))

	log.WithField("run-id", "r1").Info("configured")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "configured", entry["msg"])
	assert.Equal(t, "r1", entry["run-id"])
}
