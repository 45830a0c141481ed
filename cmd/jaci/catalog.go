// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/catalog"
	"github.com/ykrasik/jaci-sub001/internal/console"
)

// newCatalogCommand creates the `jaci catalog` command tree.
func newCatalogCommand(app *App, flags *globalFlags) *cobra.Command {
	catCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect command catalogs",
		Long: `Inspect the catalog files commands are loaded from.

Catalogs are CUE, TOML or YAML documents listing directories and script
commands. They are read from the catalogs list of the configuration and from
--catalog flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	catCmd.AddCommand(&cobra.Command{
		Use:   "validate [files...]",
		Short: "Check catalog files for errors",
		Long: `Parse every catalog file and build the hierarchy from all of them, reporting
every problem found. Without arguments the configured catalogs are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				cfg, err := app.loadConfig(cmd.Context(), flags)
				if err != nil {
					return err
				}
				paths = catalogPaths(cfg, flags)
			}
			return validateCatalogs(app, cmd.OutOrStdout(), paths)
		},
	})

	catCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the command hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := app.load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), env.renderer(cmd.OutOrStdout()).Listing(env.root, true))
			return err
		},
	})

	return catCmd
}

// validateCatalogs loads every file in paths and builds them together. It
// returns an ExitError after reporting when any check fails.
func validateCatalogs(app *App, w io.Writer, paths []string) error {
	if len(paths) == 0 {
		_, _ = fmt.Fprintln(w, SubtitleStyle.Render("No catalogs configured.")) //nolint:errcheck // terminal output
		return nil
	}

	var (
		cats   []*catalog.Catalog
		failed bool
	)
	for _, p := range paths {
		cat, err := catalog.Load(p)
		if err != nil {
			failed = true
			_, _ = fmt.Fprintf(w, "%s %s\n%s\n", ErrorStyle.Render("✗"), p, formatErrorForDisplay(err, false)) //nolint:errcheck // terminal output
			continue
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("✓"), p, //nolint:errcheck // terminal output
			SubtitleStyle.Render(fmt.Sprintf("(%d commands)", len(cat.Commands))))
		cats = append(cats, cat)
	}

	if _, err := catalog.Build(console.NewBuilder(), cats, app.logger.WithPrefix("catalog")); err != nil {
		failed = true
		_, _ = fmt.Fprintf(w, "%s hierarchy\n", ErrorStyle.Render("✗")) //nolint:errcheck // terminal output
		for _, e := range buildProblems(err) {
			_, _ = fmt.Fprintf(w, "  - %s\n", strings.ReplaceAll(e.Error(), "\n", "\n    ")) //nolint:errcheck // terminal output
		}
	}

	if failed {
		return &ExitError{Code: 1}
	}
	return nil
}

// buildProblems splits the joined cause of a build error into one error
// per catalog.
func buildProblems(err error) []error {
	cause := errors.Unwrap(err)
	if cause == nil {
		return []error{err}
	}
	if joined, ok := cause.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{cause}
}
