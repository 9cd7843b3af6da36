package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string

	// errLookupFailed means the failure was already shown to the user.
	errLookupFailed = errors.New("lookup failed")
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, errLookupFailed) {
			os.Exit(1)
		}
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := cobra.Command{
		Use:           "paperpilot",
		Short:         "Look up words and search arXiv from anything you read",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(logOutput(cmd), debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newServeCommand(),
		newDefineCommand(),
		newArxivCommand(),
		newPreferencesCommand(),
		newWatchCommand(),
	)
	return &rootCommand
}

// setupLogger configures the default logger based on debug mode
func setupLogger(w io.Writer, debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

// Commands that draw the overlay on stdout log to stderr.
func logOutput(cmd *cobra.Command) io.Writer {
	if cmd.Name() == "serve" {
		return os.Stdout
	}
	return os.Stderr
}
