// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand creates the jaci command tree. Without a subcommand jaci
// starts the interactive console.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "jaci",
		Short: "An interactive console for hierarchical commands",
		Long: TitleStyle.Render("jaci") + SubtitleStyle.Render(" - An interactive console for hierarchical commands") + `

jaci serves commands organized in directories, like files in a file
system. Commands are declared in catalog files (CUE, TOML or YAML) and
run as shell scripts. The console completes directories, commands,
parameter names and values as you type.

` + SubtitleStyle.Render("Line syntax:") + `
  net/ping example.com count=3 verbose
  <path to command> <positional values> <name=value> <flags>

` + SubtitleStyle.Render("Examples:") + `
  jaci                               Start the interactive console
  jaci exec net/ping example.com     Run a single command line
  jaci assist "net/pi"               Show completions for a line
  jaci pick                          Choose a command from a list
  jaci serve                         Serve the console over SSH
  jaci catalog validate tools.cue    Check a catalog file`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.configure(flags.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), app, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/jaci/config.cue)")
	rootCmd.PersistentFlags().StringArrayVarP(&flags.catalogs, "catalog", "c", nil, "additional catalog file (repeatable)")

	rootCmd.AddCommand(
		newReplCommand(app, flags),
		newPickCommand(app, flags),
		newExecCommand(app, flags),
		newAssistCommand(app, flags),
		newServeCommand(app, flags),
		newCatalogCommand(app, flags),
		newConfigCommand(app, flags),
		newCompletionCommand(),
	)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the jaci CLI. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// errorHandler prints actionable errors with their suggestions. Exit
// errors without a cause were already reported by the console.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		_, _ = fmt.Fprintln(w, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, false)) //nolint:errcheck // terminal output
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
