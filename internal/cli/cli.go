package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/soundloom/soundloom/internal/app"
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
// a boolean indicating the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("soundloom", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
soundloom - a sandboxed conductor for generated live-coding scripts.

Usage:
  soundloom [options] SCRIPT [SCRIPT...]

Arguments:
  SCRIPT
    Path to a script file. Multiple scripts run in order, stopping at the
    first failure.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestsFlag := flagSet.String("manifests", "manifests", "Path to the capability manifest file or directory.")
	bridgeURLFlag := flagSet.String("bridge-url", "", "socket.io endpoint to publish composition snapshots to. Empty disables the bridge.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-script execution budget. 0 uses the sandbox default.")
	noValidateFlag := flagSet.Bool("no-validate", false, "Skip the static safety gate. Only for trusted input.")
	noTrackFlag := flagSet.Bool("no-track", false, "Do not track created instruments and sequences.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No script paths provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *timeoutFlag < 0 {
		return nil, false, &ExitError{Code: 2, Message: "invalid timeout: must not be negative"}
	}

	config, err := app.NewConfig(app.Config{
		ScriptPaths:  flagSet.Args(),
		ManifestPath: *manifestsFlag,
		BridgeURL:    *bridgeURLFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		Timeout:      *timeoutFlag,
		NoValidate:   *noValidateFlag,
		NoTrack:      *noTrackFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
