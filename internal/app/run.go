package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/report"
	"github.com/vk/plansim/internal/sim"
)

// Run executes the simulation and writes the sampled report. A cancelled
// context still writes the partial timeline produced so far, then returns
// the cancellation error.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	cadence, err := report.ParseCadence(a.config.SampleCadence)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(a.config.OutputFormat)
	if err != nil {
		return err
	}

	snapshots, runErr := sim.RunChunked(ctx, a.doc, a.config.ChunkDays)
	if runErr != nil {
		a.logger.Warn("simulation interrupted, writing partial report",
			"snapshots", len(snapshots), "error", runErr)
	}

	sampled := report.Sample(snapshots, cadence)
	a.logger.Debug("timeline sampled", "cadence", string(cadence),
		"in", len(snapshots), "out", len(sampled))

	out := a.outW
	if a.config.OutPath != "" {
		f, err := os.Create(a.config.OutPath)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, sampled, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return runErr
}
