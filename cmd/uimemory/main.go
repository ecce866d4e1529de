package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/krisalay/ui-memory/config"
)

var (
	configPath string
	logLevel   string

	backend    string
	codecName  string
	keepFrames uint32

	rootCmd = &cobra.Command{
		Use:   "uimemory",
		Short: "Exercise the ui memory outside a real UI",
		Long: `uimemory drives the widget state memory through simulated frames.
It is useful to check a persistence backend or to measure frame overhead.`,
		SilenceUsage: true,
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Run a few frames and print what the memory does",
		RunE:  runDemo,
	}

	benchCmd = &cobra.Command{
		Use:   "bench",
		Short: "Run many frames from many goroutines and report throughput",
		RunE:  runBench,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (defaults are used if empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "override persistence.backend (memory, badger, redis)")
	rootCmd.PersistentFlags().StringVar(&codecName, "codec", "", "override persistence.codec (json, yaml)")
	rootCmd.PersistentFlags().Uint32Var(&keepFrames, "keep-frames", 0, "override frame.keep_frames")

	benchCmd.Flags().Int("goroutines", 8, "number of concurrent frame loops")
	benchCmd.Flags().Int("frames", 2000, "frames per goroutine")
	benchCmd.Flags().Int("widgets", 200, "widgets drawn per frame")

	rootCmd.AddCommand(demoCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadConfig reads --config and applies the flag overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Persistence.Enabled = true
		cfg.Persistence.Backend = strings.ToLower(backend)
	}
	if flags.Changed("codec") {
		cfg.Persistence.Codec = strings.ToLower(codecName)
	}
	if flags.Changed("keep-frames") {
		cfg.Frame.KeepFrames = keepFrames
	}
	return cfg, cfg.Validate()
}
