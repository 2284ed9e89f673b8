// Package main provides the CLI entrypoint for gusket.
//
// gusket generates accessor methods for annotated Go structs:
//   - gen: writes gusket_gen.go into every package that asks for accessors
//   - check: fails when a generated file is missing or out of date
//   - plan: prints the resolved per-field policy as YAML
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gusket/internal/config"
	"gusket/internal/logger"
)

// errReported is returned once diagnostics have been printed, so main only
// has to set the exit code.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:           "gusket",
	Short:         "Generate accessor methods for Go structs",
	Long:          `gusket derives getters, mutable getters and setters from //gusket directives and gusket struct tags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
}

// cfg is the effective configuration, loaded before any subcommand runs.
var cfg *config.Config

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("config", "", "path to config file (default ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errReported) {
			logger.Error("gusket failed", "err", err)
		}

		os.Exit(1)
	}
}

// setup loads the config file, applies flag overrides and initializes
// logging and color output.
func setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return err
	}

	switch colorFlag {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stderr)
	default:
		return fmt.Errorf("unsupported color mode %q (must be auto, on or off)", colorFlag)
	}

	path, err := flags.GetString("config")
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err = config.Load(path, wd)
	if err != nil {
		return err
	}

	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}

	if flags.Changed("log-json") {
		cfg.Log.JSON, _ = flags.GetBool("log-json")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.Log.Level)
	logCfg.JSON = cfg.Log.JSON
	logger.Init(logCfg)

	logger.Debug("configuration loaded", "config", path, "output", cfg.Output, "jobs", cfg.Jobs)

	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
