// Package sim is the simulation driver: it advances the global context one
// calendar day at a time from birth to the horizon age, letting each block
// read and mutate shared state on its own schedule, and records one
// immutable snapshot per day.
//
// The run is single-threaded, synchronous and deterministic — identical plan
// documents produce identical timelines. All state is threaded explicitly,
// so any number of independent runs may execute concurrently in one process.
// Blocks execute in declaration order, full stop: a later block sees the
// exports earlier blocks made on the same day, and there is no dependency
// analysis that could reorder them behind the author's back.
package sim

import (
	"context"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/program"
	"github.com/vk/plansim/internal/schedule"
	"github.com/vk/plansim/internal/scope"
)

// Snapshot is the global context as it stood at the end of one simulated
// day. Values is a private copy; mutating the live global context later
// cannot alter it.
type Snapshot struct {
	Date   schedule.Date
	Values scope.Context
}

// DefaultChunkDays is how many days Run simulates between context
// cancellation checks. Cancellation is a courtesy to interactive callers,
// not a core contract: the timeline content is identical however often the
// context is polled.
const DefaultChunkDays = 365

// Run simulates the plan from its birth date through birthDate + endAge
// years, inclusive, and returns the ordered daily timeline. A cancelled
// context returns the partial timeline built so far along with ctx.Err().
func Run(ctx context.Context, doc *plan.Document) ([]Snapshot, error) {
	return RunChunked(ctx, doc, DefaultChunkDays)
}

// RunChunked is Run with an explicit cancellation-poll interval in days.
func RunChunked(ctx context.Context, doc *plan.Document, chunkDays int) ([]Snapshot, error) {
	if chunkDays <= 0 {
		chunkDays = DefaultChunkDays
	}
	logger := ctxlog.FromContext(ctx)

	global := scope.Context{}
	if err := program.Run(doc.InitProgram, global); err != nil {
		// Global init is best-effort: keep whatever it produced before
		// failing and run the simulation anyway.
		logger.Error("global init program failed, continuing with partial state", "error", err)
	}

	end := doc.BirthDate.AddYears(doc.EndAge)
	totalDays := schedule.DaysBetween(doc.BirthDate, end) + 1
	logger.Info("simulation starting",
		"from", doc.BirthDate.String(), "to", end.String(),
		"days", totalDays, "blocks", len(doc.Blocks))

	instances := make([]*scope.BlockInstance, len(doc.Blocks))
	for i, b := range doc.Blocks {
		instances[i] = scope.NewBlockInstance(b)
	}

	snapshots := make([]Snapshot, 0, totalDays)
	for day, i := doc.BirthDate, 0; !day.After(end); day, i = day.AddDays(1), i+1 {
		if i > 0 && i%chunkDays == 0 {
			if err := ctx.Err(); err != nil {
				logger.Warn("simulation cancelled", "completed_days", i)
				return snapshots, err
			}
		}

		for _, bi := range instances {
			bi.Process(ctx, day, global)
		}
		snapshots = append(snapshots, Snapshot{Date: day, Values: global.Clone()})
	}

	logger.Info("simulation finished", "snapshots", len(snapshots))
	return snapshots, nil
}
