// SPDX-License-Identifier: MPL-2.0

// Package hierarchy implements the console's navigable namespace: a tree of
// directories and commands built once and shared read-only by every session.
package hierarchy

import (
	"context"
	"io"
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/param"
	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

const (
	// PathDelimiter separates path segments.
	PathDelimiter = "/"
	// ThisDir is the reserved path segment naming the current directory.
	ThisDir = "."
	// ParentDir is the reserved path segment naming the parent directory.
	ParentDir = ".."
)

type (
	// Entry is a Directory or a Command.
	Entry interface {
		Name() string
		Description() string
		Parent() *Directory
		Path() string
		entry()
	}

	// Directory is an inner node of the hierarchy. Its child directories and
	// commands are kept in separate tries with disjoint names.
	Directory struct {
		name        string
		description string
		parent      *Directory
		dirs        trie.Trie[*Directory]
		cmds        trie.Trie[*Command]

		dirCandidates trie.Trie[complete.Candidate]
		allCandidates trie.Trie[complete.Candidate]
	}

	// Command is a leaf of the hierarchy: an ordered parameter list and the
	// function that runs it.
	Command struct {
		name        string
		description string
		parent      *Directory
		params      []*param.Spec
		paramIndex  trie.Trie[*param.Spec]
		exec        Executor
	}

	// Executor runs a command with its bound arguments.
	Executor func(ctx context.Context, call *Call) error

	// Call carries everything a running command may use.
	Call struct {
		Command *Command
		Args    param.Args
		Stdout  io.Writer
		Stderr  io.Writer
		Nav     Navigator
	}

	// Navigator is the mutable working-directory pointer owned by a session.
	Navigator interface {
		WorkingDir() *Directory
		ChangeDir(dir *Directory)
	}
)

func (*Directory) entry() {}
func (*Command) entry()   {}

// Name returns the directory name ("" for the root).
func (d *Directory) Name() string { return d.name }

// Description returns the directory description.
func (d *Directory) Description() string { return d.description }

// Parent returns the parent directory, or nil for the root.
func (d *Directory) Parent() *Directory { return d.parent }

// IsRoot reports whether d is the root directory.
func (d *Directory) IsRoot() bool { return d.parent == nil }

// Root returns the root of the hierarchy containing d.
func (d *Directory) Root() *Directory {
	for d.parent != nil {
		d = d.parent
	}
	return d
}

// Path returns the absolute path of d, ending with a delimiter.
func (d *Directory) Path() string {
	if d.parent == nil {
		return PathDelimiter
	}
	return d.parent.Path() + d.name + PathDelimiter
}

// IsEmpty reports whether d has no children.
func (d *Directory) IsEmpty() bool {
	return d.dirs.IsEmpty() && d.cmds.IsEmpty()
}

// Directory returns the child directory called name, matched case-insensitively.
func (d *Directory) Directory(name string) (*Directory, bool) {
	return d.dirs.Get(name)
}

// Command returns the child command called name, matched case-insensitively.
func (d *Directory) Command(name string) (*Command, bool) {
	return d.cmds.Get(name)
}

// Directories returns the child directories in name order.
func (d *Directory) Directories() []*Directory { return d.dirs.Values() }

// Commands returns the child commands in name order.
func (d *Directory) Commands() []*Command { return d.cmds.Values() }

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Description returns the command description.
func (c *Command) Description() string { return c.description }

// Parent returns the directory containing the command.
func (c *Command) Parent() *Directory { return c.parent }

// Path returns the absolute path of the command.
func (c *Command) Path() string { return c.parent.Path() + c.name }

// Params returns the command's parameters in declared order.
func (c *Command) Params() []*param.Spec { return c.params }

// Param returns the parameter called name, matched case-insensitively.
func (c *Command) Param(name string) (*param.Spec, bool) {
	return c.paramIndex.Get(name)
}

// Usage returns a one-line usage string, e.g. "greet name [times] [loud]".
func (c *Command) Usage() string {
	var sb strings.Builder
	sb.WriteString(c.name)
	for _, p := range c.params {
		sb.WriteByte(' ')
		if p.IsOptional() {
			sb.WriteString("[" + p.Name() + "]")
		} else {
			sb.WriteString(p.Name())
		}
	}
	return sb.String()
}

// Execute runs the command.
func (c *Command) Execute(ctx context.Context, call *Call) error {
	call.Command = c
	return c.exec(ctx, call)
}

// EntryArg returns the entry bound to an entry parameter.
func EntryArg(args param.Args, name string) Entry {
	e, _ := args[name].(Entry)
	return e
}

// DirectoryArg returns the directory bound to an entry parameter, or nil
// when the bound entry is a command.
func DirectoryArg(args param.Args, name string) *Directory {
	d, _ := args[name].(*Directory)
	return d
}
