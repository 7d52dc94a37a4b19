// Package plan defines the format-agnostic plan document model. Loaders
// (HCL, YAML) translate their own syntax into these types; the simulation
// core consumes them and nothing else, so adding a plan format never touches
// the core.
package plan

import (
	"fmt"
	"regexp"

	"github.com/vk/plansim/internal/schedule"
)

// Block is one time-bounded unit of financial logic: a loan, a salary, a
// savings rule. Blocks are configuration — the core never mutates them.
type Block struct {
	ID       string
	Schedule schedule.Schedule

	// Inputs are the block's named parameters, kept as strings the way the
	// user entered them; they are parsed to numbers (unparseable → 0) when
	// the block initializes.
	Inputs map[string]string

	// InitProgram runs once, on the block's first active day.
	// ExecProgram runs on every firing day.
	InitProgram string
	ExecProgram string

	// Exports are the variable names this block promotes into the global
	// context after each run.
	Exports []string
}

// Document is a complete plan: the global init program, the blocks in
// execution order, and the simulated lifetime.
type Document struct {
	InitProgram string
	Blocks      []*Block // slice order is execution order
	BirthDate   schedule.Date
	EndAge      int
}

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Validate checks the structural invariants a loader cannot express in its
// schema: unique block IDs, ordered date ranges, identifier-shaped names.
// Program text is deliberately not validated here — a broken program
// degrades at run time instead of blocking the whole plan.
func (d *Document) Validate() error {
	if d.EndAge < 0 {
		return fmt.Errorf("end_age must not be negative, got %d", d.EndAge)
	}

	seen := make(map[string]struct{}, len(d.Blocks))
	for _, b := range d.Blocks {
		if b.ID == "" {
			return fmt.Errorf("block with empty id")
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("duplicate block id %q", b.ID)
		}
		seen[b.ID] = struct{}{}

		if b.Schedule.End.Before(b.Schedule.Start) {
			return fmt.Errorf("block %q: end_date %s precedes start_date %s",
				b.ID, b.Schedule.End, b.Schedule.Start)
		}
		if _, err := schedule.ParseFrequency(string(b.Schedule.Freq)); err != nil {
			return fmt.Errorf("block %q: %w", b.ID, err)
		}
		for name := range b.Inputs {
			if !identPattern.MatchString(name) {
				return fmt.Errorf("block %q: input name %q is not an identifier", b.ID, name)
			}
		}
		for _, name := range b.Exports {
			if !identPattern.MatchString(name) {
				return fmt.Errorf("block %q: export %q is not an identifier", b.ID, name)
			}
		}
	}
	return nil
}
