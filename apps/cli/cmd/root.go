package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/shotlog/packages/core/session"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "shotlog",
	Short: "Screenshot evidence, straight into a Word document.",
	Long: `shotlog captures screenshots on demand and records each one, numbered
and captioned, into a Word document as you go. A companion Excel workbook
can be written when the session stops.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) int {
	var (
		cfgErr  *session.ConfigError
		openErr *session.DocumentOpenError
		saveErr *session.SaveIOError
		exitErr *exitError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.As(err, &cfgErr):
		return ExitConfigError
	case errors.As(err, &openErr), errors.As(err, &saveErr):
		return ExitDocumentError
	default:
		return ExitUsageError
	}
}

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(displaysCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}
