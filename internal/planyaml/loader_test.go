package planyaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/plansim/internal/schedule"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const basicPlan = `
plan:
  birth_date: "1990-04-12"
  end_age: 65
  init: |
    cash = 1000

blocks:
  - id: salary
    start_date: "2010-05-01"
    end_date: "2055-04-12"
    frequency: monthly
    inputs:
      amount: "2500"
      bonus: 150.5
    execution: "cash = cash + amount + bonus"
    exports: [cash]

  - id: rent
    start_date: "2012-02-01"
    end_date: "2055-04-12"
    frequency: monthly
    execution: "cash = cash - 900"
`

func TestLoad(t *testing.T) {
	path := writeFile(t, "plan.yaml", basicPlan)

	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)

	birth, _ := schedule.ParseDate("1990-04-12")
	assert.Equal(t, birth, doc.BirthDate)
	assert.Equal(t, 65, doc.EndAge)
	assert.Contains(t, doc.InitProgram, "cash = 1000")

	require.Len(t, doc.Blocks, 2)
	salary := doc.Blocks[0]
	assert.Equal(t, "salary", salary.ID)
	assert.Equal(t, schedule.Monthly, salary.Schedule.Freq)
	assert.Equal(t, "2500", salary.Inputs["amount"])
	assert.Equal(t, "150.5", salary.Inputs["bonus"], "unquoted numbers keep their source text")
	assert.Equal(t, []string{"cash"}, salary.Exports)
	assert.Equal(t, "rent", doc.Blocks[1].ID, "list order preserved")
}

func TestLoadYmlExtension(t *testing.T) {
	path := writeFile(t, "plan.yml", basicPlan)
	doc, err := NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, doc.Blocks, 2)
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", "plan: [unclosed")
		_, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("missing plan section", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", `
blocks:
  - id: a
    start_date: "1990-01-01"
    end_date: "1991-01-01"
    frequency: daily
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no plan section")
	})

	t.Run("non-scalar input value", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", `
plan:
  birth_date: "1990-01-01"
  end_age: 1
blocks:
  - id: a
    start_date: "1990-01-01"
    end_date: "1991-01-01"
    frequency: daily
    inputs:
      amount: [1, 2]
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("bad frequency", func(t *testing.T) {
		path := writeFile(t, "plan.yaml", `
plan:
  birth_date: "1990-01-01"
  end_age: 1
blocks:
  - id: a
    start_date: "1990-01-01"
    end_date: "1991-01-01"
    frequency: hourly
`)
		_, err := NewLoader().Load(context.Background(), path)
		assert.Error(t, err)
	})
}
