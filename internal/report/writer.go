package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/vk/plansim/internal/sim"
)

// Format selects the serialization of a written report.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates the string form used by CLI flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q: want csv or json", s)
	}
}

// Write serializes the timeline in the requested format.
func Write(w io.Writer, snapshots []sim.Snapshot, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, snapshots)
	default:
		return WriteCSV(w, snapshots)
	}
}

// WriteCSV writes one row per snapshot with a "date" column followed by
// every variable name in sorted order. Variable names are only ever added
// over a run, never removed, so the final snapshot holds the full column
// set; earlier rows leave not-yet-defined variables empty.
func WriteCSV(w io.Writer, snapshots []sim.Snapshot) error {
	columns := variableColumns(snapshots)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"date"}, columns...)); err != nil {
		return err
	}

	row := make([]string, 0, len(columns)+1)
	for _, snap := range snapshots {
		row = row[:0]
		row = append(row, snap.Date.String())
		for _, name := range columns {
			if value, ok := snap.Values[name]; ok {
				row = append(row, strconv.FormatFloat(value, 'g', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonSnapshot is the wire shape of one timeline entry.
type jsonSnapshot struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

// WriteJSON writes the timeline as a JSON array. encoding/json sorts map
// keys, so output is deterministic.
func WriteJSON(w io.Writer, snapshots []sim.Snapshot) error {
	out := make([]jsonSnapshot, len(snapshots))
	for i, snap := range snapshots {
		out[i] = jsonSnapshot{Date: snap.Date.String(), Values: snap.Values}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// variableColumns is the sorted union of variable names across the
// timeline.
func variableColumns(snapshots []sim.Snapshot) []string {
	seen := make(map[string]struct{})
	for _, snap := range snapshots {
		for name := range snap.Values {
			seen[name] = struct{}{}
		}
	}
	columns := make([]string, 0, len(seen))
	for name := range seen {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return columns
}
