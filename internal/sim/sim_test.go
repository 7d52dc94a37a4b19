package sim

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plansim/internal/plan"
	"github.com/vk/plansim/internal/schedule"
)

func date(t *testing.T, s string) schedule.Date {
	t.Helper()
	d, err := schedule.ParseDate(s)
	require.NoError(t, err)
	return d
}

// snapshotOn finds the snapshot for a given day by its offset from the
// birth date; the timeline has exactly one entry per day.
func snapshotOn(t *testing.T, snapshots []Snapshot, birth, day schedule.Date) Snapshot {
	t.Helper()
	idx := schedule.DaysBetween(birth, day)
	require.Less(t, idx, len(snapshots))
	snap := snapshots[idx]
	require.Equal(t, day, snap.Date)
	return snap
}

func TestRunTimelineShape(t *testing.T) {
	doc := &plan.Document{
		InitProgram: "cash = 1000",
		BirthDate:   date(t, "1990-04-12"),
		EndAge:      1,
	}

	snapshots, err := Run(context.Background(), doc)
	require.NoError(t, err)

	require.Equal(t, 366, len(snapshots), "inclusive day range, no leap day in this span")
	assert.Equal(t, date(t, "1990-04-12"), snapshots[0].Date)
	assert.Equal(t, date(t, "1991-04-12"), snapshots[len(snapshots)-1].Date)
	for i := 1; i < len(snapshots); i++ {
		assert.Equal(t, snapshots[i-1].Date.AddDays(1), snapshots[i].Date, "dates increase monotonically")
	}
	assert.Equal(t, 1000.0, snapshots[0].Values["cash"])
}

func TestRunCompoundInterestEndToEnd(t *testing.T) {
	birth := date(t, "2025-01-01")
	doc := &plan.Document{
		InitProgram: "cash = 1000",
		BirthDate:   birth,
		EndAge:      1,
		Blocks: []*plan.Block{
			{
				ID: "interest",
				Schedule: schedule.Schedule{
					Start: date(t, "2025-01-15"),
					End:   date(t, "2025-02-15"),
					Freq:  schedule.Monthly,
				},
				InitProgram: "rate = 0.1",
				ExecProgram: "cash = cash + cash * rate",
				// cash is not declared; the pre-existing global name is
				// re-exported anyway.
			},
		},
	}

	snapshots, err := Run(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, snapshotOn(t, snapshots, birth, date(t, "2025-01-14")).Values["cash"])
	assert.InDelta(t, 1100.0, snapshotOn(t, snapshots, birth, date(t, "2025-01-15")).Values["cash"], 1e-9)
	assert.InDelta(t, 1100.0, snapshotOn(t, snapshots, birth, date(t, "2025-02-14")).Values["cash"], 1e-9)
	assert.InDelta(t, 1210.0, snapshotOn(t, snapshots, birth, date(t, "2025-02-15")).Values["cash"], 1e-9)
	assert.InDelta(t, 1210.0, snapshotOn(t, snapshots, birth, date(t, "2025-03-15")).Values["cash"], 1e-9,
		"block range ended, no third firing")
}

func TestRunSameDayOrderDependentVisibility(t *testing.T) {
	// Two daily blocks touching the same variable: the later block sees the
	// earlier block's same-day export. Declaration order is the contract.
	birth := date(t, "2025-06-01")
	sched := schedule.Schedule{Start: birth, End: birth, Freq: schedule.Daily}
	earn := &plan.Block{ID: "earn", Schedule: sched, ExecProgram: "cash = cash + 100"}
	tax := &plan.Block{ID: "tax", Schedule: sched, ExecProgram: "cash = cash * 0.5"}

	run := func(blocks []*plan.Block) float64 {
		doc := &plan.Document{InitProgram: "cash = 0", BirthDate: birth, EndAge: 0, Blocks: blocks}
		snapshots, err := Run(context.Background(), doc)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		return snapshots[0].Values["cash"]
	}

	assert.Equal(t, 50.0, run([]*plan.Block{earn, tax}), "earn then halve")
	assert.Equal(t, 100.0, run([]*plan.Block{tax, earn}), "halve nothing then earn")
}

func TestRunGlobalInitFailureContinues(t *testing.T) {
	birth := date(t, "2025-01-01")
	doc := &plan.Document{
		InitProgram: "cash = 500\nbroken = nope + 1\nnever = 1",
		BirthDate:   birth,
		EndAge:      0,
	}

	snapshots, err := Run(context.Background(), doc)
	require.NoError(t, err, "a broken init program never aborts the run")
	require.Len(t, snapshots, 1)
	assert.Equal(t, 500.0, snapshots[0].Values["cash"], "bindings before the failure survive")
	assert.NotContains(t, snapshots[0].Values, "never")
}

func TestRunBrokenBlockDoesNotStopOthers(t *testing.T) {
	birth := date(t, "2025-01-01")
	sched := schedule.Schedule{Start: birth, End: birth.AddDays(2), Freq: schedule.Daily}
	doc := &plan.Document{
		InitProgram: "cash = 0",
		BirthDate:   birth,
		EndAge:      0,
		Blocks: []*plan.Block{
			{ID: "broken", Schedule: sched, ExecProgram: "x = definitely_not_bound"},
			{ID: "healthy", Schedule: sched, ExecProgram: "cash = cash + 1"},
		},
	}

	snapshots, err := Run(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 3.0, snapshotOn(t, snapshots, birth, birth.AddDays(2)).Values["cash"],
		"healthy block fired every day despite the broken one")
}

func TestRunSnapshotsAreImmutable(t *testing.T) {
	birth := date(t, "2025-01-01")
	doc := &plan.Document{
		InitProgram: "cash = 100",
		BirthDate:   birth,
		EndAge:      0,
		Blocks: []*plan.Block{{
			ID:       "spend",
			Schedule: schedule.Schedule{Start: birth, End: birth.AddDays(30), Freq: schedule.Daily},
			// Mutates cash after the first snapshot was taken.
			ExecProgram: "cash = cash - 1",
		}},
	}

	snapshots, err := Run(context.Background(), doc)
	require.NoError(t, err)
	first := snapshots[0]
	assert.Equal(t, 99.0, first.Values["cash"])

	// Mutating the returned snapshot map must not be observable elsewhere:
	// each snapshot owns a deep copy.
	first.Values["cash"] = -1
	snapshots2, err := Run(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, 99.0, snapshots2[0].Values["cash"])
}

func TestRunDeterminism(t *testing.T) {
	birth := date(t, "1990-04-12")
	doc := &plan.Document{
		InitProgram: "cash = 1000\nrisk = 0",
		BirthDate:   birth,
		EndAge:      3,
		Blocks: []*plan.Block{
			{
				ID: "salary",
				Schedule: schedule.Schedule{
					Start: date(t, "1990-05-01"), End: date(t, "1993-05-01"), Freq: schedule.Monthly,
				},
				Inputs:      map[string]string{"amount": "2500"},
				ExecProgram: "cash = cash + amount",
				Exports:     []string{"cash"},
			},
			{
				ID: "rent",
				Schedule: schedule.Schedule{
					Start: date(t, "1990-05-02"), End: date(t, "1994-01-01"), Freq: schedule.Monthly,
				},
				Inputs:      map[string]string{"amount": "900"},
				ExecProgram: "cash = cash - amount",
				Exports:     []string{"cash"},
			},
			{
				ID: "audit",
				Schedule: schedule.Schedule{
					Start: date(t, "1991-01-01"), End: date(t, "1994-01-01"), Freq: schedule.Yearly,
				},
				ExecProgram: "risk = cash * 0.01",
				Exports:     []string{"risk"},
			},
		},
	}

	first, err := Run(context.Background(), doc)
	require.NoError(t, err)
	second, err := Run(context.Background(), doc)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("identical plans produced different timelines (-first +second):\n%s", diff)
	}
}

func TestRunChunkedCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // already cancelled before the run starts

	doc := &plan.Document{
		InitProgram: "cash = 1",
		BirthDate:   date(t, "1990-01-01"),
		EndAge:      80,
	}

	snapshots, err := RunChunked(ctx, doc, 30)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, snapshots, 30, "partial timeline up to the first poll point")
}
