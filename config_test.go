package qsearch

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/pflag"
)

func TestConfigValidate(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := NewConfig()
		So(cfg.Validate(), ShouldBeNil)

		Convey("An inverted qubit range is rejected", func() {
			cfg.MinQubits, cfg.MaxQubits = 5, 3
			So(errors.Is(cfg.Validate(), ErrInvalidSize), ShouldBeTrue)
		})

		Convey("A range past the state ceiling is rejected", func() {
			cfg.MaxQubits = cfg.MaxStateQubits + 1
			So(errors.Is(cfg.Validate(), ErrTooManyQubits), ShouldBeTrue)
		})

		Convey("Non-positive shots are rejected", func() {
			cfg.Shots = 0
			So(errors.Is(cfg.Validate(), ErrInvalidShots), ShouldBeTrue)
		})

		Convey("Unknown policies are rejected", func() {
			cfg.Target = "sideways"
			So(cfg.Validate(), ShouldNotBeNil)

			cfg.Target = TargetMiddle
			cfg.Backend = "photonic"
			So(errors.Is(cfg.Validate(), ErrUnknownBackend), ShouldBeTrue)
		})
	})

	Convey("Given each target policy", t, func() {
		cfg := NewConfig()
		sampler := NewSampler(1)

		cfg.Target = TargetFirst
		So(cfg.TargetFor(16, sampler), ShouldEqual, 0)

		cfg.Target = TargetLast
		So(cfg.TargetFor(16, sampler), ShouldEqual, 15)

		cfg.Target = TargetMiddle
		So(cfg.TargetFor(16, sampler), ShouldEqual, 8)

		cfg.Target = TargetRandom
		So(cfg.TargetFor(16, sampler), ShouldBeBetweenOrEqual, 0, 15)
	})
}

func TestLoadConfig(t *testing.T) {
	Convey("Given no file, env or flags", t, func() {
		cfg, err := LoadConfig("", nil)
		So(err, ShouldBeNil)
		So(cfg, ShouldResemble, NewConfig())
	})

	Convey("Given a config file", t, func() {
		path := filepath.Join(t.TempDir(), "qsearch.yaml")
		So(os.WriteFile(path, []byte(
			"max_qubits: 12\nshots: 2048\nbackend: Analytic\njob_timeout: 30s\n",
		), 0o644), ShouldBeNil)

		Reset(func() {
			os.Unsetenv("QSEARCH_SHOTS")
		})

		cfg, err := LoadConfig(path, nil)
		So(err, ShouldBeNil)
		So(cfg.MaxQubits, ShouldEqual, 12)
		So(cfg.Shots, ShouldEqual, 2048)
		So(cfg.Backend, ShouldEqual, BackendAnalytic)
		So(cfg.JobTimeout, ShouldEqual, 30*time.Second)
		So(cfg.Repeats, ShouldEqual, 3)

		Convey("The environment overrides the file", func() {
			t.Setenv("QSEARCH_SHOTS", "256")

			cfg, err := LoadConfig(path, nil)
			So(err, ShouldBeNil)
			So(cfg.Shots, ShouldEqual, 256)
		})

		Convey("Flags override the environment", func() {
			t.Setenv("QSEARCH_SHOTS", "256")

			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags.Int("shots", 0, "")
			flags.Int("repeats", 0, "")
			So(flags.Parse([]string{"--shots=64"}), ShouldBeNil)

			cfg, err := LoadConfig(path, flags)
			So(err, ShouldBeNil)
			So(cfg.Shots, ShouldEqual, 64)
			So(cfg.Repeats, ShouldEqual, 3)
		})
	})

	Convey("Given a missing config file", t, func() {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		So(err, ShouldNotBeNil)
	})

	Convey("Given a configuration that does not validate", t, func() {
		t.Setenv("QSEARCH_SHOTS", "-1")

		cfg, err := LoadConfig("", nil)
		So(errors.Is(err, ErrInvalidShots), ShouldBeTrue)
		So(cfg, ShouldBeNil)
	})
}
