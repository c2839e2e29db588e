package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that supply defaults for flags not given on the
// command line.
const (
	envFormat   = "QLCHECK_FORMAT"
	envLogLevel = "QLCHECK_LOG_LEVEL"
	envColor    = "QLCHECK_COLOR"
	envJobs     = "QLCHECK_JOBS"
)

// config holds the settings that may come from flags or the environment.
type config struct {
	format   string
	logLevel slog.Level
	color    string
	jobs     int
}

// envSource looks variables up in the process environment first and then
// in the values read from --env-file.
type envSource struct {
	file map[string]string
}

func loadEnvSource(path string) (envSource, error) {
	if path == "" {
		return envSource{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return envSource{}, fmt.Errorf("read env file %s: %w", path, err)
	}
	return envSource{file: vars}, nil
}

func (e envSource) get(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return e.file[key]
}

// resolveConfig merges explicitly set flags with environment defaults.
// A flag given on the command line always wins.
func resolveConfig(fs *flag.FlagSet, env envSource, format, logLevel, color string, jobs int) (config, error) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	pick := func(name, flagValue, key string) string {
		if set[name] {
			return flagValue
		}
		if v := env.get(key); v != "" {
			return v
		}
		return flagValue
	}

	cfg := config{
		format: pick("format", format, envFormat),
		color:  pick("color", color, envColor),
	}

	if cfg.format != "text" && cfg.format != "json" {
		return cfg, fmt.Errorf("invalid format %q (use text or json)", cfg.format)
	}
	switch cfg.color {
	case "auto", "always", "never":
	default:
		return cfg, fmt.Errorf("invalid color mode %q (use auto, always or never)", cfg.color)
	}

	if err := cfg.logLevel.UnmarshalText([]byte(pick("log-level", logLevel, envLogLevel))); err != nil {
		return cfg, fmt.Errorf("invalid log level: %w", err)
	}

	jobsValue := pick("jobs", strconv.Itoa(jobs), envJobs)
	n, err := strconv.Atoi(strings.TrimSpace(jobsValue))
	if err != nil || n < 1 {
		return cfg, fmt.Errorf("invalid jobs value %q (want a positive integer)", jobsValue)
	}
	cfg.jobs = n

	return cfg, nil
}
