// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/tokenize"
)

// newExecCommand creates the `jaci exec` command.
func newExecCommand(app *App, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command line...>",
		Short: "Run a single command line",
		Long: `Run a single command line from the root directory and exit.

Arguments are joined into one line; arguments containing whitespace are
quoted. The exit status is 1 when the line cannot be resolved or the command
fails.`,
		Example: `  jaci exec net/ping example.com count=3
  jaci exec describe net/ping`,
		Args:                  cobra.MinimumNArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			if err := app.session(env).Run(cmd.Context(), tokenize.Join(args)); err != nil {
				return &ExitError{Code: 1}
			}
			return nil
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
			return completeLine(app, cmd, flags, args, toComplete)
		},
	}
}

// completeLine offers shell completions for the word being typed after
// args, using the console's own assist.
func completeLine(app *App, cmd *cobra.Command, flags *globalFlags, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	env, err := app.load(cmd.Context(), flags)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	// toComplete is one shell word and stays one token even when it holds
	// spaces.
	var line string
	switch {
	case toComplete != "":
		line = tokenize.Join(append(slices.Clone(args), toComplete))
	case len(args) > 0:
		line = tokenize.Join(args) + " "
	}
	res, err := app.session(env).Assist(line)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	base := strings.TrimSuffix(toComplete, res.Prefix)
	directive := cobra.ShellCompDirectiveNoFileComp
	var out []cobra.Completion
	for _, c := range res.Candidates.Values() {
		word := base + c.Word
		switch c.Kind {
		case complete.KindDirectory, complete.KindParamName:
			word += c.Kind.Suffix()
			directive |= cobra.ShellCompDirectiveNoSpace
		case complete.KindReserved:
			continue
		}
		out = append(out, cobra.CompletionWithDesc(word, c.Description))
	}
	return out, directive
}
