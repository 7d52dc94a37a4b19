// Package testutil provides the integration-test harness: it materializes
// plan files into a temp directory, runs the full app against them, and
// captures the report and log output.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/plansim/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Report    string
	LogOutput string
	Err       error
	App       *app.App
}

// RunApp writes the given plan files (path → content) into a fresh temp
// directory and runs the whole app against it. Startup panics are recovered
// into HarnessResult.Err so tests can assert on bad plans without crashing
// the suite. The optional configure callback tweaks the default config.
func RunApp(t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, files, configure)
}

// RunAppWithContext is RunApp with a caller-supplied context, for
// cancellation tests.
func RunAppWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config)) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg, err := app.NewConfig(app.Config{
		PlanPath:      tmpDir,
		PlanFormat:    "auto",
		LogLevel:      "debug",
		LogFormat:     "text",
		OutputFormat:  "csv",
		SampleCadence: "daily",
	})
	require.NoError(t, err)
	if configure != nil {
		configure(cfg)
	}

	reportBuf := &SafeBuffer{}
	logBuf := &SafeBuffer{}

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(reportBuf, logBuf, cfg, nil)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuf.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)
	return &HarnessResult{
		Report:    reportBuf.String(),
		LogOutput: logBuf.String(),
		Err:       runErr,
		App:       testApp,
	}
}
