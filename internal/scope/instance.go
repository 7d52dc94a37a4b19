package scope

import (
	"context"
	"strconv"
	"strings"

	"github.com/vk/plansim/internal/ctxlog"
	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/program"
	"github.com/vk/plansim/internal/schedule"
)

// BlockInstance is the live state of one block across a simulation run: its
// lazily-created local context and whether init has happened. One instance
// per block per run; instances are never shared between runs.
type BlockInstance struct {
	block       *plan.Block
	initialized bool
	local       Context
}

// NewBlockInstance wraps a block definition for one run.
func NewBlockInstance(b *plan.Block) *BlockInstance {
	return &BlockInstance{block: b}
}

// Initialized reports whether the block's init program has run.
func (bi *BlockInstance) Initialized() bool { return bi.initialized }

// Local returns the block's persisted local context, nil before the first
// active day.
func (bi *BlockInstance) Local() Context { return bi.local }

// Process runs one calendar day for this block against the global context,
// mutating global through export resolution. Inactive days are a no-op.
//
// On the block's first active day the init program runs (once, ever), seeded
// with the block's declared inputs; the same day still runs the execution
// program if the schedule fires, as it does on every start date. Program
// failures are logged and isolated: whatever bindings a program made before
// failing still participate in export resolution, and the block runs again
// on its next firing day.
func (bi *BlockInstance) Process(ctx context.Context, day schedule.Date, global Context) {
	sched := bi.block.Schedule
	if !sched.Active(day) {
		return
	}
	firstDay := !bi.initialized
	fires := sched.Fires(day)
	if !firstDay && !fires {
		return
	}

	logger := ctxlog.FromContext(ctx)
	exec := BuildExecContext(bi.local, global, sched.PeriodsFromStart(day), sched.TotalPeriods())

	if firstDay {
		seedInputs(exec, bi.block.Inputs)
		if err := program.Run(bi.block.InitProgram, exec); err != nil {
			logger.Warn("block init failed, continuing with partial state",
				"block", bi.block.ID, "day", day.String(), "error", err)
		}
		bi.initialized = true
	}

	if fires {
		if err := program.Run(bi.block.ExecProgram, exec); err != nil {
			logger.Warn("block execution failed, continuing with partial state",
				"block", bi.block.ID, "day", day.String(), "error", err)
		}
		ResolveExports(exec, global, bi.block.Exports)
	}

	// The whole execution context persists, not just the exports, so
	// block-private helpers survive to the next firing.
	bi.local = exec
}

// seedInputs binds the block's declared input parameters into the execution
// context. Values are user content: anything that does not parse as a number
// becomes 0 rather than an error.
func seedInputs(exec Context, inputs map[string]string) {
	for name, raw := range inputs {
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			value = 0
		}
		exec[name] = value
	}
}
