package pipeline

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"gusket/internal/analyze"
	"gusket/internal/config"
	"gusket/internal/diagnostic"
	"gusket/internal/gen"
	"gusket/internal/logger"
	"gusket/internal/plan"
)

// Options configure a Run.
type Options struct {
	// Config is the loaded gusket.yaml. Nil means config.Default().
	Config *config.Config
	// Dir is the directory patterns are resolved against.
	Dir string
	// Patterns are go/packages patterns, e.g. "./...".
	Patterns []string
	// DebugUnformatted writes a sidecar file when gofmt rejects the output.
	DebugUnformatted bool
}

// PackageResult is the outcome for one package.
type PackageResult struct {
	Package *analyze.Package
	// Blocks holds one ImplBlock per record that was processed successfully.
	Blocks []*plan.ImplBlock
	// File is nil when the package has no methods to generate.
	File        *gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics
}

// Result is the outcome of a Run, with packages in import path order.
type Result struct {
	Packages []*PackageResult
	output   string
}

// Run loads, plans and renders every package matched by the patterns.
// Nothing is written to disk.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	loader := analyze.NewLoader(analyze.LoaderConfig{
		Dir:       opts.Dir,
		SkipFiles: []string{cfg.Output},
	})

	logger.Debug("loading packages", "dir", opts.Dir, "patterns", patterns)

	pkgs, err := loader.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	genCfg := gen.ConfigFrom(cfg)
	genCfg.DebugUnformatted = opts.DebugUnformatted
	generator := gen.NewGenerator(genCfg)

	results := make([]*PackageResult, len(pkgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(cfg.Jobs, len(pkgs))))

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, err := processPackage(generator, cfg, pkg)
			if err != nil {
				return fmt.Errorf("%s: %w", pkg.Path, err)
			}

			results[i] = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Packages: results, output: cfg.Output}, nil
}

// processPackage plans every selected record of pkg and renders the file.
func processPackage(generator *gen.Generator, cfg *config.Config, pkg *analyze.Package) (*PackageResult, error) {
	log := logger.With("package", pkg.Path)
	res := &PackageResult{Package: pkg}

	for _, record := range pkg.Records {
		if !cfg.Wants(record.Name) {
			log.Debug("skipping record", "record", record.Name)
			continue
		}

		block, err := plan.Process(record, plan.Options{Receiver: cfg.Receiver})
		if err != nil {
			d, ok := diagnostic.As(err)
			if !ok {
				return nil, err
			}

			res.Diagnostics.Add(*d)
			log.Debug("record rejected", "record", record.Name, "code", d.Code)

			continue
		}

		log.Debug("record planned", "record", record.String(), "methods", len(block.Methods))

		if len(block.Methods) == 0 {
			res.Diagnostics.AddWarning(diagnostic.CodeNothingDerived,
				fmt.Sprintf("%s asks for accessors but no field is derived; tag a field or use //gusket:all", record.Name),
				record.Pos)
		}
		res.Blocks = append(res.Blocks, block)
	}

	file, err := generator.Generate(pkg, res.Blocks)
	if err != nil {
		return nil, err
	}

	res.File = file

	return res, nil
}

// Diagnostics merges the diagnostics of every package.
func (r *Result) Diagnostics() diagnostic.Diagnostics {
	var all diagnostic.Diagnostics
	for _, p := range r.Packages {
		all.Merge(p.Diagnostics)
	}

	return all
}

// Blocks returns every ImplBlock of the run in package order.
func (r *Result) Blocks() []*plan.ImplBlock {
	var blocks []*plan.ImplBlock
	for _, p := range r.Packages {
		blocks = append(blocks, p.Blocks...)
	}

	return blocks
}

// Files returns the generated files of the run in package order.
func (r *Result) Files() []gen.GeneratedFile {
	var files []gen.GeneratedFile

	for _, p := range r.Packages {
		if p.File != nil {
			files = append(files, *p.File)
		}
	}

	return files
}

// WriteSummary lists what Write changed.
type WriteSummary struct {
	Written []string
	Removed []string
}

// Write writes every generated file and removes generated files of packages
// that no longer derive anything.
func (r *Result) Write() (*WriteSummary, error) {
	summary := &WriteSummary{}

	files := r.Files()
	if err := gen.WriteFiles(files); err != nil {
		return nil, err
	}

	for _, f := range files {
		summary.Written = append(summary.Written, filepath.Join(f.Dir, f.Filename))
	}

	var errs []error

	for _, p := range r.Packages {
		if p.File != nil || p.Package.Dir == "" {
			continue
		}

		removed, err := gen.RemoveStale(p.Package.Dir, r.output)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if removed {
			summary.Removed = append(summary.Removed, filepath.Join(p.Package.Dir, r.output))
		}
	}

	return summary, errors.Join(errs...)
}

// Check compares the generated files against disk and reports a StaleOutput
// diagnostic for every file that is missing, outdated or no longer needed.
func (r *Result) Check() (diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	for _, p := range r.Packages {
		if p.Package.Dir == "" {
			continue
		}

		ok, err := gen.UpToDate(p.Package.Dir, r.output, p.File)
		if err != nil {
			return diags, err
		}

		if ok {
			continue
		}

		reason := "is missing or out of date"
		if p.File == nil {
			reason = "is no longer needed"
		}

		path := filepath.Join(p.Package.Dir, r.output)
		diags.Add(*diagnostic.Errorf(diagnostic.CodeStaleOutput, token.Position{Filename: path},
			"%s %s; run gusket gen", path, reason))
	}

	return diags, nil
}
