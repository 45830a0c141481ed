// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

// Assist binds done like Bind, without applying defaults, and then
// completes partial, the token at the caret.
//
// A partial of the form name=prefix completes prefix against the value space
// of the named parameter. Otherwise the result is the union of the unbound
// parameter names starting with partial and the value completions of the
// next positional parameter. Name candidates are left out when the only
// unbound parameter is a single non-flag parameter. When value completion
// fails the name candidates are returned instead, if there are any.
//
// Errors are *ParseError values carrying the binding context at the point
// of failure.
func Assist(cmd *hierarchy.Command, wd *hierarchy.Directory, done []string, partial string) (complete.Result, error) {
	s := newState(cmd, wd)
	for _, token := range done {
		if err := s.consume(token); err != nil {
			return complete.Result{}, s.fail(err)
		}
	}
	s.token = partial
	s.current = nil

	if name, prefix, ok := strings.Cut(partial, string(param.ArgDelimiter)); ok {
		p, err := s.unboundNamed(name)
		if err != nil {
			return complete.Result{}, s.fail(err)
		}
		r, err := s.completeValue(p, prefix)
		if err != nil {
			return complete.Result{}, s.fail(err)
		}
		return r, nil
	}

	names := s.completeName(partial)

	p := s.nextPositional()
	if p == nil {
		if names.IsEmpty() {
			return complete.Result{}, s.fail(&param.Error{Code: param.ErrNoMoreParameters, Value: partial})
		}
		return names, nil
	}
	s.current = p
	values, err := s.completeValue(p, partial)
	if err != nil {
		if !names.IsEmpty() {
			return names, nil
		}
		return complete.Result{}, s.fail(err)
	}
	switch {
	case names.IsEmpty():
		// Path completions are relative to the last path segment.
		return values, nil
	case values.IsEmpty():
		return names, nil
	default:
		return names.Union(values), nil
	}
}

// completeName returns the unbound parameter names starting with prefix.
func (s *state) completeName(prefix string) complete.Result {
	if len(s.unbound) == 1 && !s.unbound[0].IsFlag() {
		return complete.NewResult(prefix, trie.Empty[complete.Candidate]())
	}
	candidates := make([]complete.Candidate, 0, len(s.unbound))
	for _, p := range s.unbound {
		kind := complete.KindParamName
		if p.IsFlag() {
			kind = complete.KindFlag
		}
		candidates = append(candidates, complete.Candidate{Word: p.Name(), Kind: kind, Description: p.Description()})
	}
	return complete.FromCandidates(prefix, candidates...)
}

// completeValue completes prefix against p's value space. Entry values
// complete as paths relative to the working directory.
func (s *state) completeValue(p *param.Spec, prefix string) (complete.Result, error) {
	if p.Kind() != param.KindEntry {
		return p.CompleteValue(prefix)
	}
	want := hierarchy.WantAny
	if p.IsDirectoriesOnly() {
		want = hierarchy.WantDirectories
	}
	r, err := hierarchy.CompletePath(prefix, s.wd, want)
	if err != nil {
		return complete.Result{}, &param.Error{Code: param.ErrTypeMismatch, Param: p.Name(), Value: prefix, Cause: err}
	}
	return r, nil
}
