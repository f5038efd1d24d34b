package config

import (
	"fmt"
	"slices"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/validation"
)

// ServiceConfig contains the configuration of a seqkit command.
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
	Engine      EngineConfig  `yaml:"engine" mapstructure:"engine"`
}

// EngineConfig configures plan execution.
type EngineConfig struct {
	// PlansDir lists directories searched for plan files.
	PlansDir []string `yaml:"plans_dir" mapstructure:"plans_dir"`
	// MaxItems bounds materialized results; 0 means unbounded.
	MaxItems int `yaml:"max_items" mapstructure:"max_items" validate:"gte=0"`
	// DefaultDepth is used by flat stages that do not set a depth. Unset
	// means 1; 0 makes such stages pass values through unflattened.
	DefaultDepth *int `yaml:"default_depth" mapstructure:"default_depth" validate:"omitempty,gte=0"`
	// Metrics enables otel instruments on compiled sequences.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// Tracing enables a span per plan run.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
}

// Defaults returns the default values of every ServiceConfig key, so that
// environment variables can override keys absent from the config file.
func Defaults() map[string]any {
	return map[string]any{
		"name":                 "seqrun",
		"environment":          "development",
		"logging.level":        "info",
		"logging.format":       "console",
		"logging.output":       "stderr",
		"logging.no_color":     false,
		"engine.plans_dir":     []string{"./plans"},
		"engine.max_items":     10000,
		"engine.default_depth": 1,
		"engine.metrics":       false,
		"engine.tracing":       false,
	}
}

// ApplyDefaults fills in values left empty.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	if len(c.Engine.PlansDir) == 0 {
		c.Engine.PlansDir = []string{"./plans"}
	}
	if c.Engine.DefaultDepth == nil {
		depth := 1
		c.Engine.DefaultDepth = &depth
	}
}

// Validate validates the configuration.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	validEnvs := []string{"development", "staging", "production"}
	if !slices.Contains(validEnvs, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got: %s)", validEnvs, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
