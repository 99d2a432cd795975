package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soundloom/soundloom/internal/app"
	"github.com/soundloom/soundloom/internal/cli"
	"github.com/soundloom/soundloom/internal/hcl"
	"github.com/soundloom/soundloom/internal/stubengine"
)

// main is the entrypoint for the soundloom application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical startup errors (unreadable manifests), so we
	// recover here to provide a clean exit message to the user.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(outW, "A critical startup error occurred: %v\n", r)
			os.Exit(1)
		}
	}()

	// The stub engine stands in until a real synthesis backend is attached.
	loomApp := app.New(outW, appConfig, hcl.NewLoader(), stubengine.Factory())

	return loomApp.Run(context.Background())
}
