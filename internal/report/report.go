// Package report is the downstream-facing surface of a simulation run: it
// samples the daily snapshot timeline at a chart-friendly cadence and writes
// it as CSV or JSON. It only ever reads snapshots.
package report

import (
	"fmt"

	"github.com/vk/plansim/internal/sim"
)

// Cadence selects how densely the timeline is sampled.
type Cadence string

const (
	CadenceDaily   Cadence = "daily"
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// ParseCadence validates the string form used by CLI flags.
func ParseCadence(s string) (Cadence, error) {
	switch Cadence(s) {
	case CadenceDaily, CadenceMonthly, CadenceYearly:
		return Cadence(s), nil
	default:
		return "", fmt.Errorf("invalid cadence %q: want daily, monthly or yearly", s)
	}
}

// Sample filters a daily timeline down to the chosen cadence, anchored on
// the first snapshot's month and day — the same day-of-month matching the
// scheduler uses, short months included. The first snapshot always
// qualifies. Daily sampling returns the input unchanged.
func Sample(snapshots []sim.Snapshot, cadence Cadence) []sim.Snapshot {
	if cadence == CadenceDaily || len(snapshots) == 0 {
		return snapshots
	}
	anchor := snapshots[0].Date

	var out []sim.Snapshot
	for _, snap := range snapshots {
		switch cadence {
		case CadenceMonthly:
			if snap.Date.Day == anchor.Day {
				out = append(out, snap)
			}
		case CadenceYearly:
			if snap.Date.Day == anchor.Day && snap.Date.Month == anchor.Month {
				out = append(out, snap)
			}
		}
	}
	return out
}
