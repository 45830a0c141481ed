// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ykrasik/jaci-sub001/internal/catalog"
	"github.com/ykrasik/jaci-sub001/internal/config"
	"github.com/ykrasik/jaci-sub001/internal/console"
	"github.com/ykrasik/jaci-sub001/internal/render"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer
		stdin  io.ReadCloser
		logger *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdin  io.ReadCloser
		Stdout io.Writer
		Stderr io.Writer
	}

	// globalFlags are the persistent flags shared by every command.
	globalFlags struct {
		configPath string
		catalogs   []string
		verbose    bool
	}

	// environment is what a command runs against: the effective
	// configuration and the command hierarchy built from its catalogs.
	environment struct {
		cfg  *config.Config
		root *hierarchy.Directory
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	return &App{
		Config: deps.Config,
		stdin:  deps.Stdin,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
		logger: log.NewWithOptions(deps.Stderr, log.Options{Prefix: config.AppName}),
	}
}

// configure sets the log level and the package default logger.
func (a *App) configure(verbose bool) {
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.InfoLevel)
	}
	log.SetDefault(a.logger)
}

// loadConfig loads the configuration selected by the global flags. The
// configuration's verbose setting applies unless --verbose was given.
func (a *App) loadConfig(ctx context.Context, flags *globalFlags) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	a.configure(flags.verbose || cfg.UI.Verbose)
	return cfg, nil
}

// catalogPaths returns the catalogs of cfg followed by those given with
// --catalog.
func catalogPaths(cfg *config.Config, flags *globalFlags) []string {
	return append(cfg.CatalogPaths(), flags.catalogs...)
}

// load loads the configuration and builds the hierarchy from its catalogs
// and the system commands.
func (a *App) load(ctx context.Context, flags *globalFlags) (*environment, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}
	root, err := a.build(catalogPaths(cfg, flags))
	if err != nil {
		return nil, err
	}
	return &environment{cfg: cfg, root: root}, nil
}

// build loads the catalogs in paths and builds the hierarchy from them and
// the system commands.
func (a *App) build(paths []string) (*hierarchy.Directory, error) {
	cats, err := catalog.LoadAll(paths)
	if err != nil {
		return nil, err
	}
	root, err := catalog.Build(console.NewBuilder(), cats, a.logger.WithPrefix("catalog"))
	if err != nil {
		return nil, err
	}
	a.logger.Debug("hierarchy built", "catalogs", len(cats))
	return root, nil
}

// renderer creates a renderer for w following the UI configuration.
func (e *environment) renderer(w io.Writer) *render.Renderer {
	return render.New(render.Options{
		Output:      w,
		ColorScheme: string(e.cfg.UI.ColorScheme),
		Markdown:    e.cfg.UI.Markdown,
	})
}

// session creates a console session on the App's output streams.
func (a *App) session(env *environment, opts ...console.Option) *console.Session {
	opts = append([]console.Option{
		console.WithLogger(a.logger.WithPrefix("console")),
		console.WithRenderer(env.renderer(a.stdout)),
	}, opts...)
	return console.NewSession(env.root, a.stdout, a.stderr, opts...)
}
