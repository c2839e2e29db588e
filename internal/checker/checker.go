// Package checker orchestrates schema validation, semantic analysis and lint
// passes for QL form documents, producing one consolidated report per file.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/foundry-zero/qlform/internal/ast"
	"github.com/foundry-zero/qlform/internal/report"
	"github.com/foundry-zero/qlform/internal/schema"
	"github.com/foundry-zero/qlform/internal/semantic"
)

// PassFunc is a lint pass that inspects a form already accepted by
// semantic.Check and returns warnings.
type PassFunc func(*ast.Form, *semantic.SymbolTable) []report.Finding

// CheckOptions controls which stages and passes run.
type CheckOptions struct {
	SchemaOnly bool     // Only run JSON Schema validation, skip semantic analysis.
	Passes     []string // If non-empty, only run the lint passes with these names.
	NoWarnings bool     // Skip all lint passes.
	Strict     bool     // Treat warnings as errors for exit-code purposes.
	Jobs       int      // CheckAll concurrency; <= 0 means one file at a time.
}

type passEntry struct {
	Name string
	Fn   PassFunc
}

// Checker validates QL form documents. A Checker is safe for concurrent use
// once all passes are registered.
type Checker struct {
	sv     *schema.SchemaValidator
	passes []passEntry
	log    *slog.Logger
}

// NewChecker creates a Checker with the embedded JSON Schema validator and
// all lint passes registered. A nil logger discards log output.
func NewChecker(logger *slog.Logger) (*Checker, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sv, err := schema.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("initialize schema validator: %w", err)
	}
	c := &Checker{sv: sv, log: logger}
	registerPasses(c)
	return c, nil
}

// RegisterPass adds a lint pass to the checker.
func (c *Checker) RegisterPass(name string, fn PassFunc) {
	c.passes = append(c.passes, passEntry{Name: name, Fn: fn})
}

// PassNames returns the registered lint pass names in run order.
func (c *Checker) PassNames() []string {
	names := make([]string, len(c.passes))
	for i, p := range c.passes {
		names[i] = p.Name
	}
	return names
}

// Check validates the form document at path and returns a report.
//
// Stages run in order and each gates the next: file access, JSON Schema
// validation, decoding into the syntax tree, semantic analysis, and finally
// the lint passes, which only run on forms with no errors.
func (c *Checker) Check(path string, opts CheckOptions) *report.Report {
	r := report.NewReport(path)
	log := c.log.With("file", path)

	if _, err := os.Stat(path); err != nil {
		log.Debug("cannot access file", "err", err)
		r.AddFinding(report.NewError(report.KindInput, fmt.Sprintf("cannot access file: %v", err),
			report.Location{File: path}))
		return r
	}

	// --- Phase 1: JSON Schema validation ---
	schemaErrors := c.sv.Validate(path)
	r.SchemaValid = len(schemaErrors) == 0
	log.Debug("schema validated", "phase", "schema", "findings", len(schemaErrors))

	for _, se := range schemaErrors {
		kind := report.KindSchema
		if se.ParseError {
			kind = report.KindInput
		}
		r.AddFinding(report.NewError(kind, se.Message,
			report.Location{File: path, Path: se.Path}))
	}

	if !r.SchemaValid || opts.SchemaOnly {
		return r
	}

	// --- Phase 2: Load AST ---
	form, err := ast.LoadForm(path)
	if err != nil {
		log.Debug("decode failed", "err", err)
		r.AddFinding(report.NewError(report.KindInput, fmt.Sprintf("failed to load form: %v", err),
			report.Location{File: path}))
		return r
	}

	// --- Phase 3: Semantic analysis ---
	res := semantic.CheckPhases(form)
	log.Debug("semantic analysis done", "phase", string(res.Phase), "findings", len(res.Errors))
	r.AddFindings(res.Errors)
	if res.Errors.HasErrors() || opts.NoWarnings {
		return r
	}

	// --- Phase 4: Lint passes ---
	for _, p := range c.passes {
		if !passMatchesFilter(p.Name, opts.Passes) {
			continue
		}
		findings := p.Fn(form, res.Symbols)
		log.Debug("lint pass done", "phase", p.Name, "findings", len(findings))
		for _, f := range findings {
			r.AddFinding(f)
		}
	}

	return r
}

// CheckAll checks every path, running up to opts.Jobs checks at a time, and
// returns the reports in the order of paths. It stops starting new checks
// once ctx is done and returns ctx's error.
func (c *Checker) CheckAll(ctx context.Context, paths []string, opts CheckOptions) ([]*report.Report, error) {
	reports := make([]*report.Report, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Jobs, 1))
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = c.Check(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// passMatchesFilter returns true if name is in the filter, or if the filter
// is empty (meaning run all passes).
func passMatchesFilter(name string, filter []string) bool {
	return len(filter) == 0 || slices.Contains(filter, name)
}

// registerPasses wires up all available lint passes.
func registerPasses(c *Checker) {
	c.RegisterPass("labels", semantic.CheckLabels)
	c.RegisterPass("conditions", semantic.CheckConditions)
	c.RegisterPass("calculations", semantic.CheckCalculations)
}
