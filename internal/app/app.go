// Package app wires the pieces of one simulation run together: logger,
// plan loader, simulation driver and report writer. It owns no simulation
// semantics of its own.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/planhcl"
	"github.com/vk/plansim/internal/planyaml"
)

// App encapsulates the application's dependencies, configuration and
// lifecycle. Construct with NewApp, then call Run.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	doc    *plan.Document
}

// NewApp loads and validates the plan document and returns a fully
// initialized App with its own isolated logger. Reports go to outW, logs to
// logW. An unloadable plan is a fatal startup error and panics; the CLI
// entrypoint recovers it into a clean exit.
func NewApp(outW, logW io.Writer, cfg *Config, loader plan.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("logger configured")

	if loader == nil {
		loader = loaderFor(cfg)
	}
	doc, err := loader.Load(ctx, cfg.PlanPath)
	if err != nil {
		panic(fmt.Errorf("failed to load plan: %w", err))
	}
	logger.Debug("plan document loaded", "blocks", len(doc.Blocks),
		"birth_date", doc.BirthDate.String(), "end_age", doc.EndAge)

	return &App{outW: outW, logger: logger, config: cfg, doc: doc}
}

// Document returns the loaded plan. This is primarily for testing.
func (a *App) Document() *plan.Document {
	return a.doc
}

// loaderFor picks the plan loader from the configured format, falling back
// to file extension and defaulting directories to HCL.
func loaderFor(cfg *Config) plan.Loader {
	switch cfg.PlanFormat {
	case "yaml":
		return planyaml.NewLoader()
	case "hcl":
		return planhcl.NewLoader()
	}
	if strings.HasSuffix(cfg.PlanPath, ".yaml") || strings.HasSuffix(cfg.PlanPath, ".yml") {
		return planyaml.NewLoader()
	}
	return planhcl.NewLoader()
}
