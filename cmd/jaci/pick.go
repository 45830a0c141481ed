// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/tui"
)

// pickFlags configure `jaci pick`.
type pickFlags struct {
	print bool
	theme string
}

// newPickCommand creates the `jaci pick` command.
func newPickCommand(app *App, flags *globalFlags) *cobra.Command {
	pf := &pickFlags{}
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a command and its arguments interactively",
		Long: `Choose a command from a filterable list, answer a prompt for each of its
parameters and run the resulting command line.

Without a terminal the prompts are numbered and read one answer per line
from stdin, so pick can also be scripted:

  printf '2\nexample.com\n' | jaci pick --print`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, app, flags, pf)
		},
	}
	cmd.Flags().BoolVar(&pf.print, "print", false, "print the command line instead of running it")
	cmd.Flags().StringVar(&pf.theme, "theme", string(tui.ThemeDefault), "prompt theme (default, charm, dracula, catppuccin, base16)")
	return cmd
}

func runPick(cmd *cobra.Command, app *App, flags *globalFlags, pf *pickFlags) error {
	ctx := cmd.Context()
	env, err := app.load(ctx, flags)
	if err != nil {
		return err
	}

	cfg := tui.Config{Theme: tui.Theme(pf.theme)}
	if !app.interactive() {
		cfg.Accessible = true
		cfg.Input = tui.LineInput(app.stdin)
		cfg.Output = app.stderr
	}

	picked, err := tui.PickCommand(ctx, env.root, cfg)
	if err == nil {
		var line string
		if line, err = tui.PromptLine(ctx, picked, env.root, cfg); err == nil {
			return runPicked(cmd, app, env, line, pf.print)
		}
	}
	if errors.Is(err, tui.ErrAborted) {
		return &ExitError{Code: 130}
	}
	return err
}

// runPicked prints or runs the line built by the prompts.
func runPicked(cmd *cobra.Command, app *App, env *environment, line string, printOnly bool) error {
	if printOnly {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), line)
		return err
	}
	_, _ = fmt.Fprintln(app.stderr, CmdStyle.Render("$ "+line)) //nolint:errcheck // terminal output
	if err := app.session(env).Run(cmd.Context(), line); err != nil {
		return &ExitError{Code: 1}
	}
	return nil
}
