package qsearch

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	TargetMiddle = "middle"
	TargetFirst  = "first"
	TargetLast   = "last"
	TargetRandom = "random"
)

/*
Config carries every benchmark parameter explicitly. Nothing in the package
reads globals; a driver builds one Config and hands it down.
*/
type Config struct {
	MinQubits         int           `mapstructure:"min_qubits"`
	MaxQubits         int           `mapstructure:"max_qubits"`
	MaxStateQubits    int           `mapstructure:"max_state_qubits"`
	Shots             int           `mapstructure:"shots"`
	Repeats           int           `mapstructure:"repeats"`
	Target            string        `mapstructure:"target"`
	Shuffle           bool          `mapstructure:"shuffle"`
	Seed              uint64        `mapstructure:"seed"`
	Backend           string        `mapstructure:"backend"`
	Workers           int           `mapstructure:"workers"`
	SchedulingTimeout time.Duration `mapstructure:"scheduling_timeout"`
	JobTimeout        time.Duration `mapstructure:"job_timeout"`
	Tolerance         float64       `mapstructure:"tolerance"`
	BreakerFailures   int           `mapstructure:"breaker_failures"`
	BreakerReset      time.Duration `mapstructure:"breaker_reset"`
}

func NewConfig() *Config {
	return &Config{
		MinQubits:         1,
		MaxQubits:         8,
		MaxStateQubits:    20,
		Shots:             1024,
		Repeats:           3,
		Target:            TargetMiddle,
		Backend:           BackendStateVector,
		Workers:           4,
		SchedulingTimeout: 10 * time.Second,
		JobTimeout:        2 * time.Minute,
		Tolerance:         4,
		BreakerFailures:   5,
		BreakerReset:      30 * time.Second,
	}
}

// Validate rejects configurations the benchmark cannot run.
func (c *Config) Validate() error {
	if c.MinQubits < 1 || c.MaxQubits < c.MinQubits || c.MaxQubits > maxQubits {
		return fmt.Errorf("%w: qubit range [%d,%d]", ErrInvalidSize, c.MinQubits, c.MaxQubits)
	}

	if c.MaxQubits > c.MaxStateQubits {
		return fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.MaxQubits, c.MaxStateQubits)
	}

	if c.Shots <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShots, c.Shots)
	}

	if c.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1, got %d", c.Repeats)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w: workers=%d", ErrNoWorkers, c.Workers)
	}

	if c.BreakerFailures < 0 {
		return fmt.Errorf("breaker_failures must be >= 0, got %d", c.BreakerFailures)
	}

	switch c.Target {
	case TargetMiddle, TargetFirst, TargetLast, TargetRandom:
	default:
		return fmt.Errorf("unknown target policy %q", c.Target)
	}

	switch c.Backend {
	case BackendStateVector, BackendAnalytic:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}

	return nil
}

// TargetFor picks the marked index for a problem of size n.
func (c *Config) TargetFor(n int, sampler *Sampler) int {
	switch c.Target {
	case TargetFirst:
		return 0
	case TargetLast:
		return n - 1
	case TargetRandom:
		return sampler.IntN(n)
	default:
		return n / 2
	}
}

var configFlags = map[string]string{
	"min_qubits":         "min-qubits",
	"max_qubits":         "max-qubits",
	"max_state_qubits":   "max-state-qubits",
	"shots":              "shots",
	"repeats":            "repeats",
	"target":             "target",
	"shuffle":            "shuffle",
	"seed":               "seed",
	"backend":            "backend",
	"workers":            "workers",
	"scheduling_timeout": "scheduling-timeout",
	"job_timeout":        "job-timeout",
	"tolerance":          "tolerance",
	"breaker_failures":   "breaker-failures",
	"breaker_reset":      "breaker-reset",
}

/*
LoadConfig layers defaults, an optional config file, QSEARCH_* environment
variables and any flags the caller bound, in that order of precedence.
*/
func LoadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	defaults := NewConfig()
	v := viper.New()

	v.SetDefault("min_qubits", defaults.MinQubits)
	v.SetDefault("max_qubits", defaults.MaxQubits)
	v.SetDefault("max_state_qubits", defaults.MaxStateQubits)
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("repeats", defaults.Repeats)
	v.SetDefault("target", defaults.Target)
	v.SetDefault("shuffle", defaults.Shuffle)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("scheduling_timeout", defaults.SchedulingTimeout)
	v.SetDefault("job_timeout", defaults.JobTimeout)
	v.SetDefault("tolerance", defaults.Tolerance)
	v.SetDefault("breaker_failures", defaults.BreakerFailures)
	v.SetDefault("breaker_reset", defaults.BreakerReset)

	v.SetEnvPrefix("QSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range configFlags {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Target = strings.ToLower(cfg.Target)
	cfg.Backend = strings.ToLower(cfg.Backend)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
