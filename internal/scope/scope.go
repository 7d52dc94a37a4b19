// Package scope implements the three-scope context model a block sees when
// it runs: its own persisted local context, the shared global context, and
// the ephemeral default inputs recomputed for every activation. It also owns
// export resolution — the one place where block-local values flow back into
// the global context.
package scope

// Context is a variable-name → value mapping. The global context and every
// block-local context are Contexts; so is the merged execution context a
// program runs against.
type Context map[string]float64

// Clone returns an independent copy. Snapshots and local-context persistence
// both rely on this to keep history immutable.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Names of the default inputs injected into every activation.
const (
	PeriodsFromStartVar = "periods_from_start"
	TotalPeriodsVar     = "total_periods"
)

// BuildExecContext merges the scopes for one activation. Later sources win:
// stale block-local values lose to current globals, and the default inputs
// are computed last so nothing can shadow them.
func BuildExecContext(local, global Context, periodsFromStart, totalPeriods int) Context {
	exec := make(Context, len(local)+len(global)+2)
	for k, v := range local {
		exec[k] = v
	}
	for k, v := range global {
		exec[k] = v
	}
	exec[PeriodsFromStartVar] = float64(periodsFromStart)
	exec[TotalPeriodsVar] = float64(totalPeriods)
	return exec
}

// ExportSet is the export-resolution policy: a block exports its declared
// names plus every name already present in the global context.
//
// The second half means a block that computes a purely local value whose
// name collides with an existing global silently overwrites that global on
// every run, declared or not. That is a load-bearing, observable contract
// for existing plans — cheap global visibility without declarations — so it
// lives here as a single auditable function rather than being spread through
// the driver. Do not narrow it to the declared list.
func ExportSet(declared []string, global Context) map[string]struct{} {
	set := make(map[string]struct{}, len(declared)+len(global))
	for _, name := range declared {
		set[name] = struct{}{}
	}
	for name := range global {
		set[name] = struct{}{}
	}
	return set
}

// ResolveExports copies every export-set name that the execution context
// actually holds back into the global context. Declared exports the program
// never assigned are skipped, not zero-filled.
func ResolveExports(exec, global Context, declared []string) {
	for name := range ExportSet(declared, global) {
		if value, ok := exec[name]; ok {
			global[name] = value
		}
	}
}
