// SPDX-License-Identifier: MPL-2.0

package hierarchy

import (
	"errors"
	"strings"
	"unicode"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/param"
	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

type (
	// CommandDef describes a command to be added to a hierarchy.
	CommandDef struct {
		Name        string
		Description string
		Params      []*param.Spec
		Exec        Executor
	}

	// Builder collects command definitions grouped under directory paths and
	// builds an immutable hierarchy from them.
	Builder struct {
		root *buildDir
	}

	buildDir struct {
		name        string
		description string
		dirs        []*buildDir
		cmds        []CommandDef
	}
)

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{root: &buildDir{}}
}

// AddCommand adds a command under the "/"-delimited directory path, creating
// intermediate directories as needed. An empty path means the root.
func (b *Builder) AddCommand(path string, def CommandDef) *Builder {
	dir := b.dir(path)
	dir.cmds = append(dir.cmds, def)
	return b
}

// Describe sets the description of the directory at path, creating it if
// needed. An empty path describes the root.
func (b *Builder) Describe(path, description string) *Builder {
	b.dir(path).description = description
	return b
}

func (b *Builder) dir(path string) *buildDir {
	cur := b.root
	for _, seg := range strings.Split(path, PathDelimiter) {
		if seg == "" {
			continue
		}
		cur = cur.child(seg)
	}
	return cur
}

func (d *buildDir) child(name string) *buildDir {
	for _, c := range d.dirs {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	c := &buildDir{name: name}
	d.dirs = append(d.dirs, c)
	return c
}

// Build validates every definition and returns the root directory. All
// problems found are reported together.
func (b *Builder) Build() (*Directory, error) {
	root, errs := freeze(b.root, nil)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return root, nil
}

func freeze(bd *buildDir, parent *Directory) (*Directory, []error) {
	d := &Directory{name: bd.name, description: bd.description, parent: parent}
	var errs []error

	dirs := trie.NewBuilder[*Directory]()
	for _, child := range bd.dirs {
		if err := ValidateName(child.name); err != nil {
			errs = append(errs, err)
			continue
		}
		cd, childErrs := freeze(child, d)
		errs = append(errs, childErrs...)
		if err := dirs.Add(child.name, cd); err != nil {
			errs = append(errs, &NameConflictError{Path: d.Path(), Name: child.name})
		}
	}
	d.dirs = dirs.Build()

	cmds := trie.NewBuilder[*Command]()
	for _, def := range bd.cmds {
		c, err := newCommand(def, d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if d.dirs.Contains(def.Name) {
			errs = append(errs, &NameConflictError{Path: d.Path(), Name: def.Name})
			continue
		}
		if err := cmds.Add(def.Name, c); err != nil {
			errs = append(errs, &NameConflictError{Path: d.Path(), Name: def.Name})
		}
	}
	d.cmds = cmds.Build()

	d.dirCandidates = trie.MapValues(d.dirs, func(c *Directory) (complete.Candidate, bool) {
		return complete.Candidate{Word: c.name, Kind: complete.KindDirectory, Description: c.description}, true
	})
	d.allCandidates = d.dirCandidates.Union(trie.MapValues(d.cmds, func(c *Command) (complete.Candidate, bool) {
		return complete.Candidate{Word: c.name, Kind: complete.KindCommand, Description: c.description}, true
	}))
	return d, errs
}

func newCommand(def CommandDef, parent *Directory) (*Command, error) {
	if err := ValidateName(def.Name); err != nil {
		return nil, err
	}
	c := &Command{
		name:        def.Name,
		description: def.Description,
		parent:      parent,
		params:      def.Params,
		exec:        def.Exec,
	}

	var problems []error
	if def.Exec == nil {
		problems = append(problems, errors.New("no executor"))
	}
	index := trie.NewBuilder[*param.Spec]()
	for _, p := range def.Params {
		if p == nil {
			problems = append(problems, errors.New("nil parameter"))
			continue
		}
		if err := p.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if err := index.Add(p.Name(), p); err != nil {
			problems = append(problems, err)
		}
	}
	if len(problems) > 0 {
		return nil, &InvalidCommandError{Path: c.Path(), Problems: problems}
	}
	c.paramIndex = index.Build()
	return c, nil
}

// ValidateName checks that name can be used for a directory or command: it
// must be non-empty, must not be a reserved path token and must not contain
// the path or argument delimiters, quotes or whitespace.
func ValidateName(name string) error {
	switch {
	case name == "":
		return &InvalidNameError{Name: name, Reason: "name is empty"}
	case name == ThisDir || name == ParentDir:
		return &InvalidNameError{Name: name, Reason: "name is a reserved path token"}
	case strings.ContainsRune(name, param.ArgDelimiter):
		return &InvalidNameError{Name: name, Reason: "name contains the argument delimiter '='"}
	case strings.Contains(name, PathDelimiter):
		return &InvalidNameError{Name: name, Reason: "name contains the path delimiter '/'"}
	case strings.ContainsFunc(name, func(r rune) bool { return r == '"' || r == '\'' || unicode.IsSpace(r) }):
		return &InvalidNameError{Name: name, Reason: "name contains a quote or whitespace"}
	}
	return nil
}
