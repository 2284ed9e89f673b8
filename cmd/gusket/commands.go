package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gusket/internal/diagnostic"
	"gusket/internal/logger"
	"gusket/internal/pipeline"
	"gusket/internal/plan"
)

var debugUnformatted bool

func init() {
	genCmd.Flags().BoolVar(&debugUnformatted, "debug-unformatted", false,
		"write a .unformatted.go sidecar when the generated code does not format")
}

var genCmd = &cobra.Command{
	Use:   "gen [packages]",
	Short: "Generate accessors into every matched package",
	Long: `Generate loads the matched packages (default "."), derives accessors for
every annotated type and writes them to one generated file per package.
A package that no longer derives anything loses its generated file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args)
		if err != nil {
			return err
		}

		summary, err := res.Write()
		if err != nil {
			return err
		}

		for _, path := range summary.Written {
			logger.Info("wrote", "file", path)
		}

		for _, path := range summary.Removed {
			logger.Info("removed", "file", path)
		}

		diags := res.Diagnostics()
		if diags.HasErrors() && len(summary.Written) > 0 {
			logger.Warn("rejected records have no accessors in the written files", "errors", len(diags.Errors))
		}

		return report(diags)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Verify that generated files are up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args)
		if err != nil {
			return err
		}

		diags := res.Diagnostics()

		stale, err := res.Check()
		if err != nil {
			return err
		}

		diags.Merge(stale)

		if diags.IsValid() {
			logger.Info("generated files are up to date", "packages", len(res.Packages))
		}

		return report(diags)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [packages]",
	Short: "Print the resolved accessor policy of every field as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args)
		if err != nil {
			return err
		}

		out, err := plan.ExportPoliciesYAML(res.Blocks())
		if err != nil {
			return fmt.Errorf("encoding plan: %w", err)
		}

		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return err
		}

		diags := res.Diagnostics()

		return report(diags)
	},
}

// runPipeline loads and processes the packages named by args.
func runPipeline(cmd *cobra.Command, args []string) (*pipeline.Result, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	return pipeline.Run(cmd.Context(), pipeline.Options{
		Config:           cfg,
		Dir:              wd,
		Patterns:         args,
		DebugUnformatted: debugUnformatted,
	})
}

// report prints diagnostics to stderr and turns errors into errReported.
func report(diags diagnostic.Diagnostics) error {
	r := newReporter(os.Stderr)
	r.Print(diags)

	if diags.HasErrors() {
		return errReported
	}

	return nil
}
