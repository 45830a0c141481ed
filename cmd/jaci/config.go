// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/config"
	"github.com/ykrasik/jaci-sub001/internal/issue"
)

// newConfigCommand creates the `jaci config` command tree.
func newConfigCommand(app *App, flags *globalFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage jaci configuration",
		Long: `Manage jaci configuration.

Configuration is stored in:
  - Linux: ~/.config/jaci/config.cue
  - macOS: ~/Library/Application Support/jaci/config.cue
  - Windows: %APPDATA%\jaci\config.cue

Every key can be overridden with a JACI_ environment variable, e.g.
JACI_SSH_PORT=2200.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, flags, cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(flags, cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(flags, cmd.OutOrStdout())
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *globalFlags, w io.Writer) error {
	cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		if rendered, rerr := issue.Get(issue.ConfigLoadFailedId).Render("dark"); rerr == nil {
			_, _ = fmt.Fprint(app.stderr, rendered) //nolint:errcheck // terminal output
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	line := func(indent, key string, value any) {
		_, _ = fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value))) //nolint:errcheck // terminal output
	}

	_, _ = fmt.Fprintln(w, TitleStyle.Render("Current Configuration")) //nolint:errcheck // terminal output
	_, _ = fmt.Fprintln(w)                                             //nolint:errcheck // terminal output
	if cfg.Source != "" {
		line("", "Config file", cfg.Source)
	} else {
		_, _ = fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)")) //nolint:errcheck // terminal output
	}
	_, _ = fmt.Fprintln(w) //nolint:errcheck // terminal output

	_, _ = fmt.Fprintf(w, "%s:\n", keyStyle.Render("catalogs")) //nolint:errcheck // terminal output
	paths := catalogPaths(cfg, flags)
	if len(paths) == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)")) //nolint:errcheck // terminal output
	}
	for _, p := range paths {
		_, _ = fmt.Fprintf(w, "  - %s\n", valueStyle.Render(p)) //nolint:errcheck // terminal output
	}
	line("", "prompt", cfg.Prompt)
	if history, err := cfg.HistoryPath(); err == nil {
		line("", "history_file", history)
	}

	_, _ = fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("ui")) //nolint:errcheck // terminal output
	line("  ", "color_scheme", cfg.UI.ColorScheme)
	line("  ", "verbose", cfg.UI.Verbose)
	line("  ", "markdown", cfg.UI.Markdown)

	_, _ = fmt.Fprintf(w, "\n%s:\n", keyStyle.Render("ssh")) //nolint:errcheck // terminal output
	line("  ", "address", cfg.SSHAddr())
	if key, err := cfg.HostKeyPath(); err == nil {
		line("  ", "host_key_path", key)
	}
	line("  ", "password", cfg.SSH.Password != "")
	if cfg.SSH.MetricsAddr != "" {
		line("  ", "metrics_addr", cfg.SSH.MetricsAddr)
	}
	line("  ", "watch_catalogs", cfg.SSH.WatchCatalogs)
	return nil
}

// configFilePath returns the --config file or the default config.cue.
func configFilePath(flags *globalFlags) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}
	return config.DefaultPath("")
}

func initConfig(flags *globalFlags, w io.Writer) error {
	path, err := configFilePath(flags)
	if err != nil {
		return err
	}
	created, err := config.CreateDefaultConfig(path)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		_, _ = fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path) //nolint:errcheck // terminal output
		return nil
	}
	_, _ = fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path) //nolint:errcheck // terminal output
	return nil
}

func showConfigPath(flags *globalFlags, w io.Writer) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	path, err := configFilePath(flags)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Config directory: %s\n", dir) //nolint:errcheck // terminal output
	_, _ = fmt.Fprintf(w, "Config file: %s\n", path)     //nolint:errcheck // terminal output
	return nil
}
