// SPDX-License-Identifier: MPL-2.0

package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/ykrasik/jaci-sub001/internal/render"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

const (
	// CmdCd changes the working directory.
	CmdCd = "cd"
	// CmdPwd prints the working directory.
	CmdPwd = "pwd"
	// CmdLs lists a directory.
	CmdLs = "ls"
	// CmdDescribe describes a directory or command.
	CmdDescribe = "describe"
	// CmdHelp prints usage hints.
	CmdHelp = "help"
)

// SystemCommands returns the built-in commands every console offers. They
// live in the root directory.
func SystemCommands() []hierarchy.CommandDef {
	return []hierarchy.CommandDef{
		{
			Name:        CmdCd,
			Description: "Change the working directory",
			Params: []*param.Spec{
				param.Entry("dir",
					param.WithDescription("Directory to change to"),
					param.DirectoriesOnly(),
					param.WithDefault(hierarchy.PathDelimiter)),
			},
			Exec: cd,
		},
		{
			Name:        CmdPwd,
			Description: "Print the working directory",
			Exec:        pwd,
		},
		{
			Name:        CmdLs,
			Description: "List the contents of a directory",
			Params: []*param.Spec{
				param.Entry("path",
					param.WithDescription("Directory or command to list"),
					param.Optional()),
				param.Flag("recursive", param.WithDescription("Descend into subdirectories")),
			},
			Exec: ls,
		},
		{
			Name:        CmdDescribe,
			Description: "Describe a directory or a command and its parameters",
			Params: []*param.Spec{
				param.Entry("path",
					param.WithDescription("Directory or command to describe"),
					param.Optional()),
			},
			Exec: describe,
		},
		{
			Name:        CmdHelp,
			Description: "Show how to use the console",
			Exec:        help,
		},
	}
}

// NewBuilder returns a hierarchy builder preloaded with the system commands.
func NewBuilder() *hierarchy.Builder {
	b := hierarchy.NewBuilder()
	for _, def := range SystemCommands() {
		b.AddCommand("", def)
	}
	return b
}

// rendererFor returns the renderer of the session running call, or a plain
// renderer for call's stdout when the navigator is not a Session.
func rendererFor(call *hierarchy.Call) *render.Renderer {
	if s, ok := call.Nav.(*Session); ok {
		return s.Renderer()
	}
	return render.New(render.Options{Output: call.Stdout})
}

func cd(_ context.Context, call *hierarchy.Call) error {
	call.Nav.ChangeDir(hierarchy.DirectoryArg(call.Args, "dir"))
	return nil
}

func pwd(_ context.Context, call *hierarchy.Call) error {
	_, err := fmt.Fprintln(call.Stdout, call.Nav.WorkingDir().Path())
	return err
}

func ls(_ context.Context, call *hierarchy.Call) error {
	r := rendererFor(call)
	var out string
	switch e := hierarchy.EntryArg(call.Args, "path").(type) {
	case *hierarchy.Directory:
		out = r.Listing(e, call.Args.Bool("recursive"))
	case *hierarchy.Command:
		out = r.CommandLine(e)
	}
	_, err := fmt.Fprintln(call.Stdout, out)
	return err
}

func describe(_ context.Context, call *hierarchy.Call) error {
	out, err := rendererFor(call).Describe(hierarchy.EntryArg(call.Args, "path"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(call.Stdout, strings.TrimRight(out, "\n"))
	return err
}

func help(_ context.Context, call *hierarchy.Call) error {
	r := rendererFor(call)
	st := r.Styles()

	var sb strings.Builder
	sb.WriteString(st.Title.Render("Usage") + "\n")
	sb.WriteString("  <path/to/command> [value ...] [name=value ...] [flag ...]\n\n")
	sb.WriteString("  Values bind to parameters in order, name=value binds by name and\n")
	sb.WriteString("  typing a flag's name sets it. Quote values containing spaces.\n")
	sb.WriteString("  Paths are relative to the working directory unless they start with /.\n")
	sb.WriteString("  Press Tab to complete, or type ? to list suggestions.\n\n")
	sb.WriteString(st.Title.Render("System commands") + "\n")

	root := call.Nav.WorkingDir().Root()
	for _, def := range SystemCommands() {
		cmd, ok := root.Command(def.Name)
		if !ok {
			continue
		}
		sb.WriteString("  " + r.CommandLine(cmd) + "\n")
	}
	_, err := fmt.Fprint(call.Stdout, sb.String())
	return err
}
