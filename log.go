package main

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
)

// logEnv captures environment-only diagnostics settings.
type logEnv struct {
	Debug   bool   `env:"VOCALIZE_DEBUG"`
	LogFile string `env:"VOCALIZE_LOGFILE"`
}

// setupLog configures the global logger and returns a closer for the
// log file, if one is in use.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logEnv]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log environment: %v", err)
	}

	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}

	if cfg.LogFile == "" {
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(f)
	if !cfg.Debug {
		log.SetLevel(log.InfoLevel)
	}
	return f.Close, nil
}
