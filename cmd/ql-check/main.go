// Command ql-check validates QL form documents (.ql.json, .ql.yaml) against
// the form JSON Schema and the QL semantic rules: declarations, references,
// dependency cycles and types.
//
// Usage:
//
//	ql-check [flags] form1.ql.json [form2.ql.yaml ...]
//
// Exit codes:
//
//	0  All files are valid (no errors; warnings may be present unless --strict)
//	1  One or more files have validation errors (or warnings with --strict)
//	2  Input or parse error (missing file, invalid JSON or YAML, bad flags)
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/foundry-zero/qlform/internal/checker"
	"github.com/foundry-zero/qlform/internal/report"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ql-check", flag.ContinueOnError)
	fs.SetOutput(stderr)

	formatFlag := fs.String("format", "text", "Output format: text or json (env "+envFormat+")")
	quiet := fs.Bool("quiet", false, "Suppress output (exit code only)")
	strict := fs.Bool("strict", false, "Treat warnings as errors")
	schemaOnly := fs.Bool("schema-only", false, "Run schema validation only, skip semantic analysis")
	passesFlag := fs.String("passes", "", "Comma-separated lint passes to run (default all)")
	noWarnings := fs.Bool("no-warnings", false, "Skip all lint passes")
	colorFlag := fs.String("color", "auto", "Colorize text output: auto, always or never (env "+envColor+")")
	jobs := fs.Int("jobs", 1, "Number of files to check concurrently (env "+envJobs+")")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn or error (env "+envLogLevel+")")
	envFile := fs.String("env-file", "", "Read environment defaults from this file")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "ql-check %s\n", version)
		return 0
	}

	files := fs.Args()
	if len(files) == 0 {
		fmt.Fprintln(stderr, "Error: no input files specified")
		fs.Usage()
		return 2
	}

	env, err := loadEnvSource(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	cfg, err := resolveConfig(fs, env, *formatFlag, *logLevel, *colorFlag, *jobs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.logLevel}))

	c, err := checker.NewChecker(logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	passes, err := parsePassFilter(*passesFlag, c.PassNames())
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid --passes value: %v\n", err)
		return 2
	}

	opts := checker.CheckOptions{
		SchemaOnly: *schemaOnly,
		Passes:     passes,
		NoWarnings: *noWarnings,
		Strict:     *strict,
		Jobs:       cfg.jobs,
	}

	logger.Debug("checking files", "count", len(files), "jobs", cfg.jobs)
	reports, err := c.CheckAll(context.Background(), files, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	exitCode := 0
	for _, r := range reports {
		if hasInputError(r) {
			exitCode = max(exitCode, 2)
		} else if r.HasErrors() {
			exitCode = max(exitCode, 1)
		} else if *strict && r.HasWarnings() {
			exitCode = max(exitCode, 1)
		}
	}

	if !*quiet {
		if err := printReports(stdout, reports, cfg.format, useColor(cfg.color, stdout)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}

	return exitCode
}

// hasInputError returns true if the report contains an input error.
func hasInputError(r *report.Report) bool {
	for _, e := range r.Errors {
		if e.Kind == report.KindInput {
			return true
		}
	}
	return false
}

// useColor decides whether text output is colorized. In auto mode color is
// used only when writing to the process's stdout and fatih/color has not
// disabled it (NO_COLOR set, or stdout not a terminal).
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return w == os.Stdout && !color.NoColor
	}
}

// printReports outputs the reports in the specified format. JSON output is a
// single object for one file and an array for several.
func printReports(w io.Writer, reports []*report.Report, format string, colored bool) error {
	switch format {
	case "json":
		var (
			data []byte
			err  error
		)
		if len(reports) == 1 {
			data, err = report.FormatJSON(reports[0])
		} else {
			data, err = report.FormatJSONList(reports)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "text":
		for _, r := range reports {
			if colored {
				fmt.Fprint(w, report.FormatColorText(r))
			} else {
				fmt.Fprint(w, report.FormatText(r))
			}
		}
	}
	return nil
}

// parsePassFilter parses a comma-separated list of lint pass names and
// checks each against known.
// Example: "labels,calculations"
func parsePassFilter(s string, known []string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var passes []string
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown pass %q (known: %s)", name, strings.Join(known, ", "))
		}
		if !slices.Contains(passes, name) {
			passes = append(passes, name)
		}
	}
	if len(passes) == 0 {
		return nil, fmt.Errorf("no pass names in %q", s)
	}
	return passes, nil
}
