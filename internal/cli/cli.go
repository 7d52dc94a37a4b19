// Package cli turns command-line arguments into an app.Config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/plansim/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating the program should exit cleanly (help shown), or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("plansim", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
plansim - lifetime personal-finance simulator.

Usage:
  plansim [options] [PLAN_PATH]

Arguments:
  PLAN_PATH
    Path to a plan file (.hcl, .yaml, .yml) or a directory of plan files.

Options:
`)
		flagSet.PrintDefaults()
	}

	planFlag := flagSet.String("plan", "", "Path to the plan file or directory.")
	planFormatFlag := flagSet.String("plan-format", "auto", "Plan format. Options: 'auto', 'hcl' or 'yaml'.")
	outputFlag := flagSet.String("output", "csv", "Report format. Options: 'csv' or 'json'.")
	sampleFlag := flagSet.String("sample", "daily", "Report cadence. Options: 'daily', 'monthly' or 'yearly'.")
	outFlag := flagSet.String("out", "", "Report file path. Empty writes to stdout.")
	chunkDaysFlag := flagSet.Int("chunk-days", 0, "Days between cancellation checks. 0 uses the default.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *planFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	planFormat := strings.ToLower(*planFormatFlag)
	switch planFormat {
	case "auto", "hcl", "yaml":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid plan-format: must be 'auto', 'hcl' or 'yaml'"}
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "csv" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'csv' or 'json'"}
	}

	sample := strings.ToLower(*sampleFlag)
	switch sample {
	case "daily", "monthly", "yearly":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid sample: must be 'daily', 'monthly' or 'yearly'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *chunkDaysFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid chunk-days: must not be negative"}
	}

	config, err := app.NewConfig(app.Config{
		PlanPath:      path,
		PlanFormat:    planFormat,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		OutputFormat:  outputFormat,
		SampleCadence: sample,
		OutPath:       *outFlag,
		ChunkDays:     *chunkDaysFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
