package config

import "fmt"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSampling(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSampling() error {
	if c.Sampling.DefaultSeed < 0 {
		return fmt.Errorf("sampling.default_seed must not be negative (got %d)", c.Sampling.DefaultSeed)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\" (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}
