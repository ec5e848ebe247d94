package config

import (
	"time"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/validation"
	"github.com/kbukum/pipekit/version"
)

// ServiceConfig is the full settings tree of a pipekit program.
//
//	base:
//	  name: scenarios
//	logging:
//	  level: debug
//	  format: console
//	tracing:
//	  enabled: false
//	invoke:
//	  concurrency: 4
type ServiceConfig struct {
	Base    BaseConfig    `yaml:"base" mapstructure:"base"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Invoke  InvokeConfig  `yaml:"invoke" mapstructure:"invoke"`
}

// TracingConfig controls the OpenTelemetry exporters.
type TracingConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint        string        `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	Insecure        bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate      float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	MetricsInterval time.Duration `yaml:"metrics_interval" mapstructure:"metrics_interval" validate:"gte=0"`
}

// InvokeConfig bounds concurrent independent invocations.
// Zero means unbounded.
type InvokeConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=0,lte=1024"`
}

// ApplyDefaults fills unset fields. The build version is used when
// base.version is empty, and debug builds log at debug level unless a
// level is configured.
func (c *ServiceConfig) ApplyDefaults() {
	c.Base.ApplyDefaults()
	if c.Base.Version == "" {
		c.Base.Version = version.String()
	}
	levelUnset := c.Logging.Level == ""
	c.Logging.ApplyDefaults()
	if c.Base.Debug && levelUnset {
		c.Logging.Level = "debug"
	}
	if c.Tracing.Endpoint == "" {
		c.Tracing.Endpoint = "localhost:4318"
	}
	if c.Tracing.SampleRate == 0 {
		c.Tracing.SampleRate = 1.0
	}
	if c.Tracing.MetricsInterval == 0 {
		c.Tracing.MetricsInterval = 15 * time.Second
	}
}

// Validate checks every section using struct tags.
func (c *ServiceConfig) Validate() error {
	return validation.Validate(c)
}
