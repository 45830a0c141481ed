// SPDX-License-Identifier: MPL-2.0

package binder

import (
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

// Bind binds tokens to cmd's parameters. Parameters left unbound take their
// defaults: flags become false, optional parameters use their default source
// and mandatory ones fail with param.ErrMissingMandatoryParameter. Entry
// values and entry defaults are resolved relative to wd.
//
// Errors are *ParseError values carrying the binding context at the point
// of failure.
func Bind(cmd *hierarchy.Command, wd *hierarchy.Directory, tokens []string) (param.Args, error) {
	s := newState(cmd, wd)
	for _, token := range tokens {
		if err := s.consume(token); err != nil {
			return nil, s.fail(err)
		}
	}

	s.token = ""
	for len(s.unbound) > 0 {
		p := s.unbound[0]
		s.current = p
		v, err := p.Default()
		if err != nil {
			return nil, s.fail(err)
		}
		if p.Kind() == param.KindEntry {
			if v, err = s.parse(p, v.(string)); err != nil {
				return nil, s.fail(err)
			}
		}
		s.bind(p, v)
	}
	return s.bound, nil
}
