// Copyright 2025 LNP/BP RGB Contributors
//
// Service Configuration Loader
//
// Loads the validation service's bootstrap configuration from a YAML
// file, with ${VAR_NAME} / ${VAR_NAME:-default} environment variable
// substitution applied to the raw file before parsing.

package svcconfig

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the bootstrap configuration for a validation service
// instance: where it listens, how it logs, and which network it
// resolves transactions against.
type Config struct {
	Environment string `yaml:"environment"`

	Listen  ListenSettings  `yaml:"listen"`
	Logging LoggingSettings `yaml:"logging"`
	Chain   ChainSettings   `yaml:"chain"`
}

// ListenSettings controls the HTTP surface in pkg/server.
type ListenSettings struct {
	Addr           string   `yaml:"addr"`
	ShutdownGrace  Duration `yaml:"shutdown_grace"`
}

// LoggingSettings controls internal/corelog's output.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// ChainSettings names the layer-1 network a Resolver implementation
// should connect to; the validator itself is chain-agnostic and only
// consumes this through the Resolver interface.
type ChainSettings struct {
	Network    string   `yaml:"network"`
	RPCAddr    string   `yaml:"rpc_addr"`
	RPCTimeout Duration `yaml:"rpc_timeout"`
}

// Duration wraps time.Duration for YAML unmarshaling as a Go duration
// string ("5s", "2m30s").
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads path, substitutes environment variables, and parses the
// result as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("svcconfig: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("svcconfig: parse %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Listen.Addr == "" {
		c.Listen.Addr = ":8080"
	}
	if c.Listen.ShutdownGrace == 0 {
		c.Listen.ShutdownGrace = Duration(30 * time.Second)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Chain.RPCTimeout == 0 {
		c.Chain.RPCTimeout = Duration(10 * time.Second)
	}
}

// Validate checks the loaded configuration for the combinations that
// applyDefaults cannot safely paper over.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("svcconfig: unknown logging level %q", c.Logging.Level)
	}
	return nil
}
