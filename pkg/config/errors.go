package config

// ConfigurationError is returned when required configuration is missing or invalid.
// It is always detected before any network call.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// NewConfigurationError returns a ConfigurationError carrying msg.
func NewConfigurationError(msg string) error {
	return &ConfigurationError{Message: msg}
}
