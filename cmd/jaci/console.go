// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/repl"
)

// newReplCommand creates the `jaci repl` command, the explicit form of
// running jaci without a subcommand.
func newReplCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive console",
		Long: `Start the interactive console. Tab completes the word under the cursor and
'?' lists the suggestions. When stdin is not a terminal every line of it is
run as a command line, stopping at the first failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(cmd.Context(), app, flags)
		},
	}
}

// runConsole starts the REPL when stdin is a terminal and otherwise runs
// stdin as a script, one command line per line.
func runConsole(ctx context.Context, app *App, flags *globalFlags) error {
	env, err := app.load(ctx, flags)
	if err != nil {
		return err
	}
	session := app.session(env)

	if !app.interactive() {
		if err := repl.RunScript(ctx, session, app.stdin); err != nil {
			app.logger.Debug("script aborted", "error", err)
			return &ExitError{Code: 1}
		}
		return nil
	}

	history, err := env.cfg.HistoryPath()
	if err != nil {
		app.logger.Warn("history disabled", "error", err)
		history = ""
	}
	r := repl.New(session, repl.Options{
		Prompt:      env.cfg.Prompt,
		HistoryFile: history,
		Banner:      banner(),
		Stdin:       app.stdin,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
	}, app.logger.WithPrefix("repl"))

	// Ctrl+C cancels the running command rather than the process. The line
	// editor handles it at the prompt.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)
	go func() {
		for range sigs {
			r.Interrupt()
		}
	}()

	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// interactive reports whether stdin is a local terminal.
func (a *App) interactive() bool {
	f, ok := a.stdin.(*os.File)
	return ok && repl.IsTerminal(f)
}

func banner() string {
	return TitleStyle.Render("jaci") + " " + SubtitleStyle.Render(getVersionString()) + "\n" +
		SubtitleStyle.Render("Type 'help' for commands, Tab to complete, '?' for suggestions, 'exit' to leave.")
}
