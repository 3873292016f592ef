package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/theapemachine/errnie"

	"github.com/theapemachine/qsearch"
)

var configPath string

func main() {
	rootCmd := newRootCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "qsearch",
		Short: "Compare classical search with Grover amplitude amplification",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(
		iterationsCmd(),
		probabilityCmd(),
		benchCmd(),
		groverCmd(),
		searchCmd(),
		historyCmd(),
	)

	return rootCmd
}

// addConfigFlags registers the flags LoadConfig knows how to bind, except
// those named in skip.
func addConfigFlags(dst *pflag.FlagSet, skip ...string) {
	defaults := qsearch.NewConfig()
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)

	fs.Int("min-qubits", defaults.MinQubits, "Smallest register width in the sweep")
	fs.Int("max-qubits", defaults.MaxQubits, "Largest register width in the sweep")
	fs.Int("max-state-qubits", defaults.MaxStateQubits, "Largest register the state vector backend will allocate")
	fs.Int("shots", defaults.Shots, "Measurements per circuit run")
	fs.Int("repeats", defaults.Repeats, "Circuit runs per size; the median success rate is reported")
	fs.String("target", defaults.Target, "Target policy: middle, first, last or random")
	fs.Bool("shuffle", defaults.Shuffle, "Shuffle the dataset before the classical searches")
	fs.Uint64("seed", defaults.Seed, "Sampler seed; 0 seeds from the clock")
	fs.String("backend", defaults.Backend, "Simulator backend: statevector or analytic")
	fs.Int("workers", defaults.Workers, "Concurrent sizes in a sweep")
	fs.Duration("scheduling-timeout", defaults.SchedulingTimeout, "How long a job may wait for a worker")
	fs.Duration("job-timeout", defaults.JobTimeout, "How long a single size may run")
	fs.Float64("tolerance", defaults.Tolerance, "Standard errors an empirical rate may deviate from theory")
	fs.Int("breaker-failures", defaults.BreakerFailures, "Consecutive backend failures that open the breaker; 0 disables it")
	fs.Duration("breaker-reset", defaults.BreakerReset, "How long an open breaker rejects runs")

	fs.VisitAll(func(f *pflag.Flag) {
		if !slices.Contains(skip, f.Name) {
			dst.AddFlag(f)
		}
	})
}

// loadConfig layers the config file, env and cmd's flags, ignoring the
// flags in skip that share a name with a config key but mean something else.
func loadConfig(cmd *cobra.Command, skip ...string) (*qsearch.Config, error) {
	fs := pflag.NewFlagSet(cmd.Name(), pflag.ContinueOnError)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !slices.Contains(skip, f.Name) {
			fs.AddFlag(f)
		}
	})

	cfg, err := qsearch.LoadConfig(configPath, fs)
	if err != nil {
		return nil, err
	}

	errnie.Info(
		"config - qubits %d..%d, shots %d, repeats %d, backend %s, seed %d",
		cfg.MinQubits, cfg.MaxQubits, cfg.Shots, cfg.Repeats, cfg.Backend, cfg.Seed,
	)

	return cfg, nil
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
