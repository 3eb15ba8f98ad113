package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/markphelps/optional"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"pcmax/internal/coordinator"
	"pcmax/internal/ga"
)

// Search modes.
const (
	ModeSequential = "sequential"
	ModeParallel   = "parallel"
)

// RunConfig contains all configuration for a pcmax run.
type RunConfig struct {
	Mode        string            `mapstructure:"mode"`
	Instance    InstanceConfig    `mapstructure:"instance"`
	GA          GAConfig          `mapstructure:"ga"`
	Coordinator CoordinatorConfig `mapstructure:"coordinator"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// InstanceConfig points at the problem instance file.
type InstanceConfig struct {
	Path string `mapstructure:"path"`
}

// GAConfig contains the genetic search parameters. Zero values for
// max_iterations and replacement select the defaults of the chosen mode.
type GAConfig struct {
	Population        int           `mapstructure:"population"`
	MaxIterations     int           `mapstructure:"max_iterations"`
	MaxTime           time.Duration `mapstructure:"max_time"`
	Replacement       string        `mapstructure:"replacement"`
	CrossoverRate     float64       `mapstructure:"crossover_rate"`
	ReplacementQuota  float64       `mapstructure:"replacement_quota"`
	MutationRate      float64       `mapstructure:"mutation_rate"`
	StopCheckInterval int           `mapstructure:"stop_check_interval"`
}

// CoordinatorConfig contains parallel-mode configuration.
type CoordinatorConfig struct {
	Workers int `mapstructure:"workers"`
	// Seed is the base seed; absent means "derive from the clock". It is read
	// with IsSet after unmarshaling so an explicit 0 stays a fixed seed.
	Seed optional.Int64 `mapstructure:"-"`
}

// LoggingConfig contains logging-related configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig enables the Prometheus exporter when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load loads the run configuration from the given path. It does not validate:
// callers apply their overrides first and then call Validate.
// If configPath is empty, it looks for pcmax.yaml in the config/ directory.
// Environment variables with PCMAX_ prefix override config file values.
func Load(configPath string) (*RunConfig, error) {
	v := viper.New()

	v.SetDefault("mode", ModeParallel)
	v.SetDefault("instance.path", "m25n198.txt")
	v.SetDefault("ga.population", 100)
	v.SetDefault("ga.max_iterations", 0)
	v.SetDefault("ga.max_time", 300*time.Second)
	v.SetDefault("ga.replacement", "")
	v.SetDefault("ga.crossover_rate", 0.40)
	v.SetDefault("ga.replacement_quota", 0.20)
	v.SetDefault("ga.mutation_rate", 0.05)
	v.SetDefault("ga.stop_check_interval", 1000)
	v.SetDefault("coordinator.workers", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("metrics.addr", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("pcmax")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PCMAX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg RunConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if v.IsSet("coordinator.seed") {
		seed, err := cast.ToInt64E(v.Get("coordinator.seed"))
		if err != nil {
			return nil, fmt.Errorf("coordinator.seed: %w", err)
		}
		cfg.Coordinator.Seed = optional.NewInt64(seed)
	}

	return &cfg, nil
}

// Validate checks the mode, the instance path and everything Search checks.
func (c *RunConfig) Validate() error {
	switch c.Mode {
	case ModeSequential, ModeParallel:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeSequential, ModeParallel)
	}
	if c.Instance.Path == "" {
		return errors.New("instance path is empty")
	}
	_, err := c.Search(0)
	return err
}

// SearchGA builds the GA configuration for the configured mode, starting from
// that mode's defaults.
func (c *RunConfig) SearchGA(limit int) (ga.Config, error) {
	cfg := ga.DefaultConfig()
	if c.Mode == ModeSequential {
		cfg = ga.SequentialConfig()
	}

	cfg.Limit = limit
	cfg.Population = c.GA.Population
	if c.GA.MaxIterations > 0 {
		cfg.MaxIterations = c.GA.MaxIterations
	}
	cfg.MaxTime = c.GA.MaxTime
	if c.GA.Replacement != "" {
		cfg.Replacement = ga.Replacement(c.GA.Replacement)
	}
	cfg.CrossoverRate = c.GA.CrossoverRate
	cfg.ReplacementQuota = c.GA.ReplacementQuota
	cfg.MutationRate = c.GA.MutationRate
	cfg.StopCheckInterval = c.GA.StopCheckInterval

	if err := cfg.Validate(); err != nil {
		return ga.Config{}, err
	}
	return cfg, nil
}

// Search builds the coordinator configuration for a run with the given
// target makespan.
func (c *RunConfig) Search(limit int) (coordinator.Config, error) {
	gaCfg, err := c.SearchGA(limit)
	if err != nil {
		return coordinator.Config{}, err
	}
	out := coordinator.Config{Workers: c.Coordinator.Workers, GA: gaCfg, Seed: c.Coordinator.Seed}
	if c.Mode == ModeSequential {
		out.Workers = 1
	}
	if err := out.Validate(); err != nil {
		return coordinator.Config{}, err
	}
	return out, nil
}
