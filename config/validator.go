package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/usd/errors"
)

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if err := c.validateVolume(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.validateMinio(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.validateLog(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return errors.New(
			errors.CodeInvalidConfig,
			fmt.Sprintf("configuration validation failed: %s", strings.Join(problems, "; ")),
		)
	}
	return nil
}

func (c *Config) validateVolume() error {
	if c.Volume.Prefix == "" {
		return errors.New(errors.CodeInvalidConfig, "volume.prefix must not be empty")
	}

	switch strings.ToLower(c.Volume.Backend) {
	case BackendOS, BackendMemory, BackendMinio:
		return nil
	default:
		return errors.New(
			errors.CodeInvalidConfig,
			fmt.Sprintf("volume.backend %q is not one of: %s", c.Volume.Backend,
				strings.Join([]string{BackendOS, BackendMemory, BackendMinio}, ", ")),
		)
	}
}

// validateMinio checks the connection settings, only when minio is selected.
func (c *Config) validateMinio() error {
	if !strings.EqualFold(c.Volume.Backend, BackendMinio) {
		return nil
	}

	var missing []string
	if c.Minio.Endpoint == "" {
		missing = append(missing, "minio.endpoint")
	}
	if c.Minio.Bucket == "" {
		missing = append(missing, "minio.bucket")
	}
	if len(missing) > 0 {
		return errors.New(
			errors.CodeInvalidConfig,
			fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", ")),
		)
	}
	return nil
}

func (c *Config) validateLog() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return errors.New(errors.CodeInvalidConfig, fmt.Sprintf("log.level %q is not a valid level", c.Log.Level))
	}
	return nil
}
