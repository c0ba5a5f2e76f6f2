// Command navdemo drives a small mail application through the navigation
// core: it runs scripted navigation steps, saves the navigator tree to a
// file and restores it again.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/comalice/scenenav/bundle"
)

// Config is read from the environment and overridden by flags.
type Config struct {
	Format   string `env:"FORMAT" envDefault:"json"`
	Dir      string `env:"STATE_DIR" envDefault:"navstate"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON"`
}

var (
	cfg      Config
	logLevel = new(slog.LevelVar)
	logger   *slog.Logger
)

func loadConfig() (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Prefix: "NAVDEMO_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

func newLogger(w io.Writer, c Config) (*slog.Logger, error) {
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: logLevel}
	if c.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func (c Config) codec() (*bundle.Codec, error) {
	f, err := bundle.ParseFormat(c.Format)
	if err != nil {
		return nil, err
	}
	return bundle.NewCodec(f)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "navdemo",
		Short:         "Drive a demo application through the navigation core",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Format, "format", cfg.Format, "state file format: json, yaml or toml")
	flags.StringVar(&cfg.Dir, "dir", cfg.Dir, "directory holding saved state")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")

	root.AddCommand(newRunCmd(), newInspectCmd())
	return root
}

func main() {
	c, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg = c

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "navdemo:", err)
		os.Exit(1)
	}
}
