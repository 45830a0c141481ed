// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/pkg/engine"
)

type (
	// assistOutput is the JSON form of an assist result.
	assistOutput struct {
		Line       string            `json:"line"`
		Prefix     string            `json:"prefix"`
		Append     string            `json:"append"`
		NewLine    string            `json:"new_line"`
		Command    string            `json:"command,omitempty"`
		Candidates []assistCandidate `json:"candidates"`
	}

	assistCandidate struct {
		Word        string `json:"word"`
		Kind        string `json:"kind"`
		Description string `json:"description,omitempty"`
	}
)

// newAssistCommand creates the `jaci assist` command.
func newAssistCommand(app *App, flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "assist <line>",
		Short: "Show completions for a partial command line",
		Long: `Complete the last word of a partial command line, as Tab does in the
console. The line is resolved from the root directory; a trailing space
completes a new word.`,
		Example: `  jaci assist "net/pi"
  jaci assist "net/ping example.com "
  jaci assist --json "net/ping proto="`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			session := app.session(env)
			res, err := session.Assist(args[0])
			if err != nil {
				session.Report(err)
				return &ExitError{Code: 1}
			}
			if asJSON {
				return writeAssistJSON(cmd, res)
			}
			out := session.Renderer().Suggestions(res.Result)
			switch {
			case out != "":
			case res.NewLine() != res.Line:
				out = res.NewLine()
			default:
				out = SubtitleStyle.Render("(no suggestions)")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func writeAssistJSON(cmd *cobra.Command, res *engine.AssistResult) error {
	out := assistOutput{
		Line:       res.Line,
		Prefix:     res.Prefix,
		Append:     res.Append(),
		NewLine:    res.NewLine(),
		Candidates: []assistCandidate{},
	}
	if res.Command != nil {
		out.Command = res.Command.Path()
	}
	for _, c := range res.Candidates.Values() {
		out.Candidates = append(out.Candidates, assistCandidate{
			Word:        c.Word,
			Kind:        c.Kind.String(),
			Description: c.Description,
		})
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
