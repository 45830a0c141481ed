// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/internal/metrics"
	"github.com/ykrasik/jaci-sub001/internal/sshserver"
	"github.com/ykrasik/jaci-sub001/internal/watch"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

type (
	// serveFlags override the ssh section of the configuration.
	serveFlags struct {
		host        string
		port        int
		metricsAddr string
		watch       bool
	}

	// rootSetter receives rebuilt hierarchies. *sshserver.Server implements it.
	rootSetter interface {
		SetRoot(root *hierarchy.Directory)
	}
)

// newServeCommand creates the `jaci serve` command.
func newServeCommand(app *App, flags *globalFlags) *cobra.Command {
	sf := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the console over SSH",
		Long: `Serve the console over SSH. Every SSH session gets its own console with
its own working directory.

  - an interactive session (ssh -t) gets the line editor with completion
  - a remote command (ssh host net/ping a) runs that single line
  - piped input (ssh host < script) runs as a script

Prometheus metrics are served on ssh.metrics_addr when it is set. With
--watch (or ssh.watch_catalogs) the hierarchy is rebuilt whenever a catalog
file changes; sessions opened afterwards see the new commands. A catalog
that fails to load keeps the previous hierarchy in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app, flags, sf)
		},
	}
	cmd.Flags().StringVar(&sf.host, "host", "", "address to bind (overrides ssh.host)")
	cmd.Flags().IntVarP(&sf.port, "port", "p", -1, "port to listen on (overrides ssh.port)")
	cmd.Flags().StringVar(&sf.metricsAddr, "metrics-addr", "", "serve /metrics on this address (overrides ssh.metrics_addr)")
	cmd.Flags().BoolVarP(&sf.watch, "watch", "w", false, "rebuild the hierarchy when a catalog changes (overrides ssh.watch_catalogs)")
	return cmd
}

func runServe(cmd *cobra.Command, app *App, flags *globalFlags, sf *serveFlags) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := app.load(ctx, flags)
	if err != nil {
		return err
	}
	ssh := env.cfg.SSH
	if sf.host != "" {
		ssh.Host = sf.host
	}
	if sf.port >= 0 {
		ssh.Port = sf.port
	}
	if sf.metricsAddr != "" {
		ssh.MetricsAddr = sf.metricsAddr
	}
	if sf.watch {
		ssh.WatchCatalogs = true
	}

	keyPath, err := env.cfg.HostKeyPath()
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("locate SSH host key").
			WithSuggestion("Set ssh.host_key_path in your configuration").
			WithIssue(issue.HostKeyFailedId).
			Wrap(err).
			BuildError()
	}

	m := metrics.New()
	cfg := sshserver.DefaultConfig()
	cfg.Host = ssh.Host
	cfg.Port = ssh.Port
	cfg.HostKeyPath = keyPath
	cfg.Password = ssh.Password
	cfg.Prompt = env.cfg.Prompt
	cfg.ColorScheme = string(env.cfg.UI.ColorScheme)
	cfg.Markdown = env.cfg.UI.Markdown

	srv := sshserver.New(env.root, cfg,
		sshserver.WithLogger(app.logger.WithPrefix("ssh-server")),
		sshserver.WithObserver(m),
	)
	if err := srv.Start(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("start SSH server").
			WithResource(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))).
			WithSuggestion("Check that the port is free, or pick another with --port").
			WithIssue(issue.SSHServerStartFailedId).
			Wrap(err).
			BuildError()
	}
	defer func() { _ = srv.Stop() }() //nolint:errcheck // logged by the server

	var metricsErr <-chan error
	if ssh.MetricsAddr != "" {
		ms := metrics.NewServer(ssh.MetricsAddr, m, app.logger.WithPrefix("metrics"))
		if err := ms.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() { _ = ms.Stop() }() //nolint:errcheck // best-effort shutdown
		metricsErr = ms.Err()
	}

	var watchErr <-chan error
	if ssh.WatchCatalogs {
		w, err := newCatalogWatcher(app, catalogPaths(env.cfg, flags), srv, m)
		switch {
		case errors.Is(err, watch.ErrNoPaths):
			app.logger.Warn("no catalogs to watch")
		case err != nil:
			return err
		default:
			ch := make(chan error, 1)
			go func() { ch <- w.Run(ctx) }()
			watchErr = ch
		}
	}

	info, err := srv.ConnectionInfo()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Serving console on %s\n  %s\n", //nolint:errcheck // terminal output
		SuccessStyle.Render("✓"), srv.Address(), CmdStyle.Render(info.String()))

	return waitServe(ctx, srv.Err(), metricsErr, watchErr)
}

// newCatalogWatcher watches the catalogs in paths and hands every
// successfully rebuilt hierarchy to target.
func newCatalogWatcher(app *App, paths []string, target rootSetter, m *metrics.Metrics) (*watch.Watcher, error) {
	logger := app.logger.WithPrefix("watch")
	return watch.New(watch.Config{
		Paths:  paths,
		Logger: logger,
		OnChange: func(_ context.Context, changed []string) error {
			root, err := app.build(paths)
			m.CatalogsReloaded(err)
			if err != nil {
				return fmt.Errorf("reload catalogs: %w", err)
			}
			target.SetRoot(root)
			logger.Info("catalogs reloaded", "changed", changed)
			return nil
		},
	})
}

// waitServe blocks until ctx is done, a server fails or the catalog
// watcher stops.
func waitServe(ctx context.Context, sshErr, metricsErr, watchErr <-chan error) error {
	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-sshErr:
		if !ok {
			return nil
		}
		return fmt.Errorf("SSH server failed: %w", err)
	case err, ok := <-metricsErr:
		if !ok {
			return nil
		}
		return fmt.Errorf("metrics server failed: %w", err)
	case err := <-watchErr:
		if err == nil {
			return nil
		}
		return fmt.Errorf("catalog watcher failed: %w", err)
	}
}
