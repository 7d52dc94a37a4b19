package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plansim/internal/app"
	"github.com/vk/plansim/internal/testutil"
)

const interestPlanHCL = `
plan {
  birth_date = "2025-01-01"
  end_age    = 1
  init       = "cash = 1000"
}

block "interest" {
  start_date = "2025-01-15"
  end_date   = "2025-02-15"
  frequency  = "monthly"
  init       = "rate = 0.1"
  execution  = "cash = cash + cash * rate"
}
`

const interestPlanYAML = `
plan:
  birth_date: "2025-01-01"
  end_age: 1
  init: "cash = 1000"
blocks:
  - id: interest
    start_date: "2025-01-15"
    end_date: "2025-02-15"
    frequency: monthly
    init: "rate = 0.1"
    execution: "cash = cash + cash * rate"
`

func TestAppRunsHCLPlanEndToEnd(t *testing.T) {
	result := testutil.RunApp(t, map[string]string{"plan.hcl": interestPlanHCL}, func(cfg *app.Config) {
		cfg.SampleCadence = "monthly"
	})
	require.NoError(t, result.Err)

	lines := strings.Split(strings.TrimSpace(result.Report), "\n")
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "date,cash", lines[0])
	assert.Contains(t, result.Report, "2025-02-01,1100", "after the first firing")
	assert.Contains(t, result.Report, "2025-03-01,1210", "after both firings")
}

func TestAppRunsYAMLPlanEndToEnd(t *testing.T) {
	result := testutil.RunApp(t, map[string]string{"plan.yaml": interestPlanYAML}, func(cfg *app.Config) {
		cfg.SampleCadence = "monthly"
		cfg.OutputFormat = "json"
	})
	require.NoError(t, result.Err)
	assert.Contains(t, result.Report, `"cash": 1210`)
}

func TestAppUnloadablePlanIsAStartupError(t *testing.T) {
	result := testutil.RunApp(t, map[string]string{"plan.hcl": `plan { birth_date = `}, nil)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "startup panicked")
}

func TestAppBrokenProgramStillProducesReport(t *testing.T) {
	broken := strings.Replace(interestPlanHCL,
		`execution  = "cash = cash + cash * rate"`,
		`execution  = "cash = cash + missing_var"`, 1)

	result := testutil.RunApp(t, map[string]string{"plan.hcl": broken}, nil)
	require.NoError(t, result.Err, "bad formulas degrade, they never fail the run")
	assert.Contains(t, result.Report, "2025-01-01,1000")
	assert.Contains(t, result.LogOutput, "block execution failed")
}

func TestAppCancelledContextWritesPartialReport(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := testutil.RunAppWithContext(ctx, t, map[string]string{"plan.hcl": interestPlanHCL}, func(cfg *app.Config) {
		cfg.ChunkDays = 10
	})
	require.ErrorIs(t, result.Err, context.Canceled)
	assert.Contains(t, result.Report, "date,cash", "partial report still written")
}

func TestAppDocumentAccessor(t *testing.T) {
	result := testutil.RunApp(t, map[string]string{"plan.hcl": interestPlanHCL}, nil)
	require.NoError(t, result.Err)
	require.NotNil(t, result.App)
	assert.Len(t, result.App.Document().Blocks, 1)
}
