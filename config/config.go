// Package config loads simulation settings and world layouts from YAML files,
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/wumpusmesh/belief"
	"github.com/hupe1980/wumpusmesh/logging"
	"github.com/hupe1980/wumpusmesh/world"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Transport kinds.
const (
	TransportLocal = "local"
	TransportRedis = "redis"
)

// Config is a complete simulation setup.
type Config struct {
	World        world.Layout     `yaml:"world"`
	Agents       int              `yaml:"agents"`
	WumpusPolicy string           `yaml:"wumpus_policy"`
	Simulation   SimulationConfig `yaml:"simulation"`
	Transport    TransportConfig  `yaml:"transport"`
	Logging      LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the scheduling parameters. Durations use
// time.ParseDuration syntax.
type SimulationConfig struct {
	TickInterval  string `yaml:"tick_interval"`
	CheckInterval string `yaml:"check_interval"`
	IdleChecks    int    `yaml:"idle_checks"`
	Timeout       string `yaml:"timeout"`
}

// TransportConfig selects how agents exchange knowledge.
type TransportConfig struct {
	Kind      string `yaml:"kind"`
	RedisAddr string `yaml:"redis_addr,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the standard 4x4 world explored by one agent over the
// in-process transport.
func DefaultConfig() *Config {
	return &Config{
		World:        world.Standard(),
		Agents:       1,
		WumpusPolicy: belief.TrustPeer.String(),
		Simulation: SimulationConfig{
			TickInterval:  "10ms",
			CheckInterval: "20ms",
			IdleChecks:    3,
			Timeout:       "30s",
		},
		Transport: TransportConfig{
			Kind: TransportLocal,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// StandardWorld is an alias of DefaultConfig.
func StandardWorld() *Config { return DefaultConfig() }

// Load reads a YAML file on top of the defaults and applies environment
// overrides. A .env file in the working directory is loaded first if present.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// A world given in the file replaces the standard world entirely.
		var overlay struct {
			World *world.Layout `yaml:"world"`
		}
		if err := yaml.Unmarshal(data, &overlay); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		if overlay.World != nil {
			cfg.World = world.Layout{}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Missing .env files are fine.
	_ = godotenv.Load()
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("WUMPUS_TICK_INTERVAL"); v != "" {
		c.Simulation.TickInterval = v
	}
	if v := os.Getenv("WUMPUS_TRANSPORT"); v != "" {
		c.Transport.Kind = v
	}
	if v := os.Getenv("WUMPUS_REDIS_ADDR"); v != "" {
		c.Transport.RedisAddr = v
	}
	if v := os.Getenv("WUMPUS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// GetTickInterval returns the tick interval, 10ms if unset or malformed.
func (c *Config) GetTickInterval() time.Duration {
	return parseDuration(c.Simulation.TickInterval, 10*time.Millisecond)
}

// GetCheckInterval returns the quiescence check interval, 20ms if unset or
// malformed.
func (c *Config) GetCheckInterval() time.Duration {
	return parseDuration(c.Simulation.CheckInterval, 20*time.Millisecond)
}

// GetTimeout returns the run timeout, 30s if unset or malformed.
func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.Simulation.Timeout, 30*time.Second)
}

// GetWumpusPolicy returns the parsed wumpus policy, TrustPeer if malformed.
func (c *Config) GetWumpusPolicy() belief.WumpusPolicy {
	p, err := belief.ParseWumpusPolicy(c.WumpusPolicy)
	if err != nil {
		return belief.TrustPeer
	}
	return p
}

// GetLogLevel returns the parsed log level, info if malformed.
func (c *Config) GetLogLevel() logging.LogLevel {
	l, err := logging.ParseLogLevel(c.Logging.Level)
	if err != nil {
		return logging.LogLevelInfo
	}
	return l
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// Validate reports the first problem of the configuration.
func (c *Config) Validate() error {
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Agents < 1 || c.Agents > len(c.World.Agents) {
		return fmt.Errorf("%w: %d agents for %d start cells", ErrInvalidConfig, c.Agents, len(c.World.Agents))
	}
	if _, err := belief.ParseWumpusPolicy(c.WumpusPolicy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logging.ParseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (valid: text, json)", ErrInvalidConfig, c.Logging.Format)
	}

	for _, d := range []struct{ name, value string }{
		{"tick_interval", c.Simulation.TickInterval},
		{"check_interval", c.Simulation.CheckInterval},
		{"timeout", c.Simulation.Timeout},
	} {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%w: simulation.%s: %w", ErrInvalidConfig, d.name, err)
		}
		if v <= 0 {
			return fmt.Errorf("%w: simulation.%s must be positive, got %s", ErrInvalidConfig, d.name, d.value)
		}
	}

	switch c.Transport.Kind {
	case TransportLocal:
	case TransportRedis:
		if c.Transport.RedisAddr == "" {
			return fmt.Errorf("%w: redis transport without redis_addr", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: transport %q (valid: %s, %s)", ErrInvalidConfig, c.Transport.Kind, TransportLocal, TransportRedis)
	}
	return nil
}
