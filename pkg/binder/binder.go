// SPDX-License-Identifier: MPL-2.0

// Package binder turns a command's raw argument tokens into bound argument
// values (Bind) or into completion candidates for the token at the caret
// (Assist).
//
// Every token is classified the same way in both modes:
//
//  1. A token containing '=' is name=value; the name must be an unbound
//     parameter.
//  2. Otherwise a token naming an unbound flag binds that flag to true.
//  3. Otherwise the token is the value of the next unbound non-flag
//     parameter in declared order.
package binder

import (
	"slices"
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

// state is the binding state of a single Bind or Assist call.
type state struct {
	cmd     *hierarchy.Command
	wd      *hierarchy.Directory
	bound   param.Args
	unbound []*param.Spec

	current *param.Spec
	token   string
}

func newState(cmd *hierarchy.Command, wd *hierarchy.Directory) *state {
	return &state{
		cmd:     cmd,
		wd:      wd,
		bound:   param.Args{},
		unbound: slices.Clone(cmd.Params()),
	}
}

// consume classifies token and binds it.
func (s *state) consume(token string) error {
	s.token = token
	s.current = nil

	if name, value, ok := strings.Cut(token, string(param.ArgDelimiter)); ok {
		p, err := s.unboundNamed(name)
		if err != nil {
			return err
		}
		return s.parseAndBind(p, value)
	}

	if p, ok := s.cmd.Param(token); ok && p.IsFlag() && s.isUnbound(p) {
		s.current = p
		s.bind(p, true)
		return nil
	}

	p := s.nextPositional()
	if p == nil {
		return &param.Error{Code: param.ErrNoMoreParameters, Value: token}
	}
	return s.parseAndBind(p, token)
}

// unboundNamed returns the unbound parameter called name.
func (s *state) unboundNamed(name string) (*param.Spec, error) {
	p, ok := s.cmd.Param(name)
	if !ok {
		return nil, &param.Error{Code: param.ErrUnknownParameter, Param: name}
	}
	s.current = p
	if !s.isUnbound(p) {
		return nil, &param.Error{Code: param.ErrAlreadyBound, Param: p.Name()}
	}
	return p, nil
}

func (s *state) parseAndBind(p *param.Spec, raw string) error {
	s.current = p
	v, err := s.parse(p, raw)
	if err != nil {
		return err
	}
	s.bind(p, v)
	return nil
}

// parse converts raw to p's kind; entry values are resolved from the
// working directory.
func (s *state) parse(p *param.Spec, raw string) (any, error) {
	if p.Kind() != param.KindEntry {
		return p.Parse(raw)
	}
	var (
		e   hierarchy.Entry
		err error
	)
	if p.IsDirectoriesOnly() {
		e, err = hierarchy.ResolveDirectory(raw, s.wd)
	} else {
		e, err = hierarchy.ResolvePath(raw, s.wd)
	}
	if err != nil {
		return nil, &param.Error{Code: param.ErrTypeMismatch, Param: p.Name(), Value: raw, Cause: err}
	}
	return e, nil
}

func (s *state) bind(p *param.Spec, value any) {
	s.bound[p.Name()] = value
	s.unbound = slices.DeleteFunc(s.unbound, func(u *param.Spec) bool { return u == p })
}

func (s *state) isUnbound(p *param.Spec) bool {
	return slices.Contains(s.unbound, p)
}

// nextPositional returns the first unbound non-flag parameter.
func (s *state) nextPositional() *param.Spec {
	for _, p := range s.unbound {
		if !p.IsFlag() {
			return p
		}
	}
	return nil
}

// fail wraps err with the current binding context.
func (s *state) fail(err error) *ParseError {
	return &ParseError{
		Err: err,
		Diagnostic: Diagnostic{
			Command: s.cmd,
			Bound:   s.bound.Clone(),
			Current: s.current,
			Unbound: slices.Clone(s.unbound),
			Token:   s.token,
		},
	}
}
