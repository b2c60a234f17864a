package config

import (
	"dario.cat/mergo"
	"github.com/pkg/errors"
)

// MergeInputs overrides the inputs read from the configuration file with every
// non-empty value of overrides. Runner-provided inputs always win over the file.
func (c *Config) MergeInputs(overrides Inputs) error {
	if err := mergo.Merge(&c.Inputs, overrides, mergo.WithOverride); err != nil {
		return errors.Wrap(err, "merging action inputs")
	}

	return nil
}
