// SPDX-License-Identifier: MPL-2.0

// Package param describes command parameters: their kinds, default values,
// accepted values and how raw tokens are parsed and completed against them.
package param

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

// ArgDelimiter separates a parameter name from its value in a name=value token.
const ArgDelimiter = '='

type (
	// Spec describes one command parameter. A Spec is immutable once
	// created; default and accepted-value suppliers may be called any number
	// of times and must not have side effects.
	Spec struct {
		name        string
		description string
		kind        Kind
		optional    bool
		defaultFn   func() any
		accepted    func() []string
		dirsOnly    bool
		invalid     []error
	}

	// Option configures a Spec.
	Option func(*Spec)
)

// New creates a parameter of the given kind. Parameters are mandatory unless
// an option makes them optional; flags are always optional.
func New(name string, kind Kind, opts ...Option) *Spec {
	s := &Spec{name: name, kind: kind}
	for _, opt := range opts {
		opt(s)
	}
	if kind == KindFlag {
		s.optional = true
	}
	return s
}

// Bool creates a boolean parameter.
func Bool(name string, opts ...Option) *Spec { return New(name, KindBool, opts...) }

// Int creates an integer parameter.
func Int(name string, opts ...Option) *Spec { return New(name, KindInt, opts...) }

// Double creates a floating-point parameter.
func Double(name string, opts ...Option) *Spec { return New(name, KindDouble, opts...) }

// String creates a string parameter.
func String(name string, opts ...Option) *Spec { return New(name, KindString, opts...) }

// Flag creates a flag parameter.
func Flag(name string, opts ...Option) *Spec { return New(name, KindFlag, opts...) }

// Entry creates an entry-reference parameter.
func Entry(name string, opts ...Option) *Spec { return New(name, KindEntry, opts...) }

// WithDescription sets the parameter's description.
func WithDescription(desc string) Option {
	return func(s *Spec) { s.description = desc }
}

// Optional makes the parameter optional. Without WithDefault or
// WithDefaultFunc the default is the kind's zero value ("." for entry
// parameters). It keeps a default set by an earlier option.
func Optional() Option {
	return func(s *Spec) { s.optional = true }
}

// WithDefault makes the parameter optional with a constant default. Entry
// parameters take a path string, resolved when the command is bound.
func WithDefault(value any) Option {
	return func(s *Spec) {
		if s.kind == KindFlag {
			s.invalid = append(s.invalid, errors.New("flags cannot have a default value"))
			return
		}
		if err := checkValue(s.kind, value); err != nil {
			s.invalid = append(s.invalid, fmt.Errorf("default value: %w", err))
			return
		}
		s.optional = true
		s.defaultFn = func() any { return value }
	}
}

// WithDefaultFunc makes the parameter optional with a default evaluated each
// time the parameter is left unbound.
func WithDefaultFunc(fn func() any) Option {
	return func(s *Spec) {
		if fn == nil {
			s.invalid = append(s.invalid, errors.New("default supplier is nil"))
			return
		}
		s.optional = true
		s.defaultFn = fn
	}
}

// WithAcceptedValues restricts a string parameter to a fixed set of values.
// Matching is case-insensitive.
func WithAcceptedValues(values ...string) Option {
	fixed := append([]string(nil), values...)
	return func(s *Spec) {
		s.accepted = func() []string { return fixed }
	}
}

// WithAcceptedValuesFunc restricts a string parameter to the values returned
// by fn, evaluated afresh on every use.
func WithAcceptedValuesFunc(fn func() []string) Option {
	return func(s *Spec) {
		if fn == nil {
			s.invalid = append(s.invalid, errors.New("accepted-values supplier is nil"))
			return
		}
		s.accepted = fn
	}
}

// DirectoriesOnly restricts an entry parameter to directories.
func DirectoriesOnly() Option {
	return func(s *Spec) { s.dirsOnly = true }
}

// Name returns the parameter name.
func (s *Spec) Name() string { return s.name }

// Description returns the parameter description.
func (s *Spec) Description() string { return s.description }

// Kind returns the parameter kind.
func (s *Spec) Kind() Kind { return s.kind }

// IsOptional reports whether the parameter may be left unbound.
func (s *Spec) IsOptional() bool { return s.optional }

// IsFlag reports whether the parameter is a flag.
func (s *Spec) IsFlag() bool { return s.kind == KindFlag }

// IsRestricted reports whether a string parameter has an accepted-value set.
func (s *Spec) IsRestricted() bool { return s.kind == KindString && s.accepted != nil }

// IsDirectoriesOnly reports whether an entry parameter only accepts directories.
func (s *Spec) IsDirectoriesOnly() bool { return s.dirsOnly }

// Validate checks that the parameter can be bound from a command line.
func (s *Spec) Validate() error {
	problems := append([]error(nil), s.invalid...)
	if err := ValidateName(s.name); err != nil {
		problems = append(problems, err)
	}
	if err := s.kind.Validate(); err != nil {
		problems = append(problems, err)
	}
	if s.accepted != nil && s.kind != KindString {
		problems = append(problems, fmt.Errorf("accepted values are only valid for string parameters, not %s", s.kind))
	}
	if s.dirsOnly && s.kind != KindEntry {
		problems = append(problems, fmt.Errorf("directories-only is only valid for entry parameters, not %s", s.kind))
	}
	if len(problems) == 0 {
		return nil
	}
	return &InvalidSpecError{Param: s.name, Problems: problems}
}

// ValidateName checks that name is usable as a parameter name: non-empty,
// without whitespace, quotes or the name=value delimiter.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if strings.ContainsFunc(name, func(r rune) bool {
		return r == ArgDelimiter || r == '"' || r == '\'' || unicode.IsSpace(r)
	}) {
		return fmt.Errorf("%w: %q contains '=', a quote or whitespace", ErrInvalidName, name)
	}
	return nil
}

// Default returns the value bound when the parameter is left unbound.
// Flags default to false; mandatory parameters fail with
// ErrMissingMandatoryParameter. Entry parameters return a path string.
func (s *Spec) Default() (any, error) {
	if s.kind == KindFlag {
		return false, nil
	}
	if !s.optional {
		return nil, newError(ErrMissingMandatoryParameter, s.name, "", nil)
	}
	if s.defaultFn == nil {
		return zeroValue(s.kind), nil
	}
	value := s.defaultFn()
	if err := checkValue(s.kind, value); err != nil {
		return nil, newError(ErrTypeMismatch, s.name, fmt.Sprint(value), err)
	}
	return value, nil
}

// AcceptedValues returns the accepted values of a restricted string parameter
// as a trie whose values hold each word as declared, or false when the
// parameter is unrestricted.
func (s *Spec) AcceptedValues() (trie.Trie[string], bool) {
	if !s.IsRestricted() {
		return trie.Empty[string](), false
	}
	b := trie.NewBuilder[string]()
	for _, v := range s.accepted() {
		_ = b.Add(v, v) //nolint:errcheck // empty and duplicate values are ignored
	}
	return b.Build(), true
}

func zeroValue(kind Kind) any {
	switch kind {
	case KindBool, KindFlag:
		return false
	case KindInt:
		return 0
	case KindDouble:
		return 0.0
	case KindString:
		return ""
	case KindEntry:
		return "."
	default:
		return nil
	}
}

func checkValue(kind Kind, value any) error {
	var ok bool
	switch kind {
	case KindBool, KindFlag:
		_, ok = value.(bool)
	case KindInt:
		_, ok = value.(int)
	case KindDouble:
		_, ok = value.(float64)
	case KindString, KindEntry:
		_, ok = value.(string)
	}
	if !ok {
		return fmt.Errorf("%T is not a valid %s value", value, kind)
	}
	return nil
}
