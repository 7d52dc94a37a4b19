package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/plansim/internal/app"
	"github.com/vk/plansim/internal/cli"
)

// main is the entrypoint for the plansim application.
func main() {
	// Minimal logger until the configured one takes over.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling.
func run(outW, logW io.Writer, args []string) (err error) {
	appConfig, shouldExit, perr := cli.Parse(args, logW)
	if perr != nil {
		return perr
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (an unloadable plan);
	// recover into a clean error for the user.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("a critical startup error occurred: %v", r)
		}
	}()

	planApp := app.NewApp(outW, logW, appConfig, nil)
	return planApp.Run(context.Background())
}
