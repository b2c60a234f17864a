package config

import (
	"time"

	"github.com/google/uuid"
)

// Global contains settings resolved when the process starts.
// They are never read from the configuration file.
type Global struct {
	// RunID identifies this invocation in logs and pushed metrics.
	RunID uuid.UUID

	// StartTime is when the process started.
	StartTime time.Time

	// Version is the action version, sent in the User-Agent header.
	Version string
}
