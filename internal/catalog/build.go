// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

// Build adds every catalog to b and builds the hierarchy. All problems of
// all catalogs are reported together.
func Build(b *hierarchy.Builder, cats []*Catalog, logger *log.Logger) (*hierarchy.Directory, error) {
	var errs []error
	for _, c := range cats {
		if err := c.AddTo(b, logger); err != nil {
			errs = append(errs, err)
		}
	}

	var root *hierarchy.Directory
	if len(errs) == 0 {
		var err error
		if root, err = b.Build(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, issue.NewErrorContext().
			WithOperation("build command hierarchy").
			WithSuggestion("Run 'jaci catalog validate' on each catalog").
			WithIssue(issue.CatalogBuildFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return root, nil
}

// AddTo adds the catalog's directories and commands to b. Commands whose
// script or parameters cannot be converted are skipped and reported.
// Remaining problems, such as name conflicts, surface from b.Build.
func (c *Catalog) AddTo(b *hierarchy.Builder, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default().WithPrefix("catalog")
	}
	for _, d := range c.Directories {
		b.Describe(d.Path, d.Description)
	}

	var errs []error
	for i, cmd := range c.Commands {
		def, err := c.commandDef(i, cmd, logger)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		b.AddCommand(cmd.Path, def)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s: %w", c.name(), errors.Join(errs...))
	}
	logger.Debug("catalog loaded", "source", c.name(), "commands", len(c.Commands))
	return nil
}

func (c *Catalog) name() string {
	if c.Source == "" {
		return "<catalog>"
	}
	return c.Source
}

func (c *Catalog) commandDef(i int, cmd Command, logger *log.Logger) (hierarchy.CommandDef, error) {
	var errs []error

	prog, err := parseScript(cmd.Script, fmt.Sprintf("%s:commands[%d]", c.name(), i))
	if err != nil {
		errs = append(errs, err)
	}
	specs := make([]*param.Spec, 0, len(cmd.Params))
	for _, p := range cmd.Params {
		spec, err := p.Spec()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	if len(errs) > 0 {
		return hierarchy.CommandDef{}, fmt.Errorf("commands[%d] %q: %w", i, cmd.Name, errors.Join(errs...))
	}

	s := &script{prog: prog, dir: c.Dir(), logger: logger}
	return hierarchy.CommandDef{
		Name:        cmd.Name,
		Description: cmd.Description,
		Params:      specs,
		Exec:        s.run,
	}, nil
}

// Spec converts the declaration into a parameter spec. A default makes the
// parameter optional; inconsistent combinations are reported when the
// hierarchy is built.
func (p Param) Spec() (*param.Spec, error) {
	kind, err := param.ParseKind(p.Type)
	if err != nil {
		return nil, fmt.Errorf("param %q: %w", p.Name, err)
	}

	opts := []param.Option{param.WithDescription(p.Description)}
	if len(p.Accepts) > 0 {
		opts = append(opts, param.WithAcceptedValues(p.Accepts...))
	}
	if p.DirectoriesOnly {
		opts = append(opts, param.DirectoriesOnly())
	}
	switch {
	case p.Default != nil:
		v, err := coerce(kind, p.Default)
		if err != nil {
			return nil, fmt.Errorf("param %q: default: %w", p.Name, err)
		}
		opts = append(opts, param.WithDefault(v))
	case p.Optional:
		opts = append(opts, param.Optional())
	}
	return param.New(p.Name, kind, opts...), nil
}

// coerce converts a decoded document value to the Go type of kind. Decoders
// differ in their number types, so every integer and float representation
// is accepted where it converts exactly.
func coerce(kind param.Kind, v any) (any, error) {
	switch kind {
	case param.KindInt:
		if i, ok := toInt(v); ok {
			return i, nil
		}
	case param.KindDouble:
		if f, ok := toFloat(v); ok {
			return f, nil
		}
	case param.KindString, param.KindEntry:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case param.KindBool, param.KindFlag:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %v (%T) is not a valid %s value", param.ErrTypeMismatch, v, v, kind)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), n >= math.MinInt && n <= math.MaxInt
	case uint64:
		return int(n), n <= math.MaxInt
	case float64:
		return int(n), n == math.Trunc(n) && math.Abs(n) <= 1<<53
	case *big.Int:
		return int(n.Int64()), n.IsInt64()
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case *big.Float:
		f, _ := n.Float64()
		return f, true
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}

// Names returns the full path of every command in the catalog.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Commands))
	for i, cmd := range c.Commands {
		p := strings.Trim(cmd.Path, hierarchy.PathDelimiter)
		if p == "" {
			names[i] = hierarchy.PathDelimiter + cmd.Name
		} else {
			names[i] = hierarchy.PathDelimiter + p + hierarchy.PathDelimiter + cmd.Name
		}
	}
	return names
}
