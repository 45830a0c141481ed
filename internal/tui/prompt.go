// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
	"github.com/ykrasik/jaci-sub001/pkg/tokenize"
)

// useDefault is the restricted-value option that leaves a parameter unbound.
const useDefault = "(default)"

// errRequired is reported while a mandatory parameter is left blank.
var errRequired = errors.New("a value is required")

// answer holds the response to one parameter prompt.
type answer struct {
	spec  *param.Spec
	text  string
	value bool
}

// PromptLine asks for every parameter of cmd and returns the command line
// that runs cmd with the answers. Parameters left blank are not bound, so
// their defaults apply. Entry parameters are suggested the paths below
// root.
func PromptLine(ctx context.Context, cmd *hierarchy.Command, root *hierarchy.Directory, cfg Config) (string, error) {
	answers := make([]*answer, len(cmd.Params()))
	fields := make([]huh.Field, len(cmd.Params()))
	for i, p := range cmd.Params() {
		answers[i] = &answer{spec: p}
		fields[i] = field(answers[i], root)
	}

	if len(fields) > 0 {
		if err := newForm(cfg, huh.NewGroup(fields...)).RunWithContext(ctx); err != nil {
			return "", abortErr(err)
		}
	}

	tokens := []string{cmd.Path()}
	for _, a := range answers {
		if tok, ok := a.token(); ok {
			tokens = append(tokens, tok)
		}
	}
	return tokenize.Join(tokens), nil
}

// field creates the prompt for a.spec.
func field(a *answer, root *hierarchy.Directory) huh.Field {
	p := a.spec
	title := p.Name()
	desc := describe(p)

	switch {
	case p.IsFlag():
		return huh.NewConfirm().Title(title).Description(desc).Value(&a.value)

	case p.Kind() == param.KindBool:
		if def, err := p.Default(); err == nil {
			a.value, _ = def.(bool)
		}
		return huh.NewConfirm().Title(title).Description(desc).Value(&a.value)

	case p.IsRestricted():
		accepted, _ := p.AcceptedValues()
		var options []huh.Option[string]
		if p.IsOptional() {
			options = append(options, huh.NewOption(useDefault, ""))
		}
		for _, v := range accepted.Values() {
			options = append(options, huh.NewOption(v, v))
		}
		return huh.NewSelect[string]().Title(title).Description(desc).Options(options...).Value(&a.text)

	default:
		in := huh.NewInput().
			Title(title).
			Description(desc).
			Validate(func(s string) error { return validate(p, s) }).
			Value(&a.text)
		if def, err := p.Default(); err == nil {
			in = in.Placeholder(fmt.Sprint(def))
		}
		if p.Kind() == param.KindEntry {
			in = in.Suggestions(entryPaths(root, p.IsDirectoriesOnly()))
		}
		return in
	}
}

// token returns the line token binding a, if it binds anything.
func (a *answer) token() (string, bool) {
	p := a.spec
	switch {
	case p.IsFlag():
		return p.Name(), a.value
	case p.Kind() == param.KindBool:
		return fmt.Sprintf("%s%c%t", p.Name(), param.ArgDelimiter, a.value), true
	}
	v := strings.TrimSpace(a.text)
	if v == "" {
		return "", false
	}
	return p.Name() + string(param.ArgDelimiter) + v, true
}

// validate checks a typed answer for p. Blank answers are accepted for
// optional parameters.
func validate(p *param.Spec, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		if p.IsOptional() {
			return nil
		}
		return errRequired
	}
	_, err := p.Parse(s)
	return err
}

// describe is the prompt description of p: its kind, whether it is
// optional, and its own description.
func describe(p *param.Spec) string {
	parts := []string{p.Kind().String()}
	if p.IsOptional() && !p.IsFlag() {
		parts = append(parts, "optional")
	}
	out := strings.Join(parts, ", ")
	if p.Description() != "" {
		out += ": " + p.Description()
	}
	return out
}

// entryPaths lists the paths of the entries below root.
func entryPaths(root *hierarchy.Directory, dirsOnly bool) []string {
	var out []string
	var walk func(d *hierarchy.Directory)
	walk = func(d *hierarchy.Directory) {
		out = append(out, d.Path())
		if !dirsOnly {
			for _, c := range d.Commands() {
				out = append(out, c.Path())
			}
		}
		for _, sub := range d.Directories() {
			walk(sub)
		}
	}
	walk(root)
	return out
}
