// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muesli/termenv"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/pkg/binder"
	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

const (
	// SchemeAuto follows the terminal background.
	SchemeAuto = "auto"
	// SchemeDark forces dark styles.
	SchemeDark = "dark"
	// SchemeLight forces light styles.
	SchemeLight = "light"

	defaultWidth = 80
)

// kindOrder is the order suggestion groups are listed in.
var kindOrder = []complete.Kind{
	complete.KindReserved,
	complete.KindDirectory,
	complete.KindCommand,
	complete.KindParamName,
	complete.KindFlag,
	complete.KindValue,
}

type (
	// Options configures a Renderer.
	Options struct {
		// Output is the writer the rendered text is destined for. Its terminal
		// capabilities decide the color profile; nil means plain text.
		Output io.Writer
		// ColorScheme is one of SchemeAuto, SchemeDark or SchemeLight.
		ColorScheme string
		// Markdown renders descriptions through glamour.
		Markdown bool
		// Width is the word wrap width; 0 means 80.
		Width int
		// Environ is the environment of a remote terminal, e.g. an SSH
		// session's. When set the color profile is detected from its TERM
		// even though Output is not a local terminal.
		Environ []string
	}

	// environ adapts a remote environment to termenv.
	environ []string

	// Renderer renders console results for one output.
	Renderer struct {
		lg       *lipgloss.Renderer
		styles   Styles
		glamour  string
		markdown bool
		width    int
	}
)

// New creates a Renderer.
func New(opts Options) *Renderer {
	out := opts.Output
	if out == nil {
		out = io.Discard
	}
	var lg *lipgloss.Renderer
	if opts.Environ != nil {
		lg = lipgloss.NewRenderer(out,
			termenv.WithEnvironment(environ(opts.Environ)),
			termenv.WithUnsafe(),
			termenv.WithColorCache(true))
	} else {
		lg = lipgloss.NewRenderer(out)
	}
	if opts.Output == nil {
		lg.SetColorProfile(termenv.Ascii)
	}
	switch opts.ColorScheme {
	case SchemeDark:
		lg.SetHasDarkBackground(true)
	case SchemeLight:
		lg.SetHasDarkBackground(false)
	}

	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	r := &Renderer{
		lg:       lg,
		styles:   newStyles(lg),
		markdown: opts.Markdown,
		width:    width,
	}
	switch {
	case lg.ColorProfile() == termenv.Ascii:
		r.glamour = "notty"
	case lg.HasDarkBackground():
		r.glamour = "dark"
	default:
		r.glamour = "light"
	}
	return r
}

// Environ implements termenv.Environ.
func (e environ) Environ() []string { return e }

// Getenv implements termenv.Environ.
func (e environ) Getenv(key string) string {
	for _, kv := range e {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}

// Styles returns the renderer's styles.
func (r *Renderer) Styles() Styles { return r.styles }

// Prompt renders the REPL prompt for the working directory.
func (r *Renderer) Prompt(name string, wd *hierarchy.Directory) string {
	return r.styles.Prompt.Render(name+":"+wd.Path()) + "> "
}

// Suggestions renders the candidates of res grouped by kind, one group per
// line. It returns "" when there is nothing to suggest.
func (r *Renderer) Suggestions(res complete.Result) string {
	cands := res.Suggestions()
	if len(cands) == 0 {
		return ""
	}
	groups := make(map[complete.Kind][]string)
	for _, c := range cands {
		groups[c.Kind] = append(groups[c.Kind], r.candidate(c))
	}

	var lines []string
	for _, k := range kindOrder {
		if words, ok := groups[k]; ok {
			lines = append(lines, r.styles.Muted.Render(kindLabel(k)+":")+" "+strings.Join(words, "  "))
		}
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) candidate(c complete.Candidate) string {
	switch c.Kind {
	case complete.KindDirectory:
		return r.styles.Directory.Render(c.Word + hierarchy.PathDelimiter)
	case complete.KindCommand:
		return r.styles.Command.Render(c.Word)
	case complete.KindParamName:
		return r.styles.Param.Render(c.Word + string(param.ArgDelimiter))
	case complete.KindFlag:
		return r.styles.Flag.Render(c.Word)
	case complete.KindValue:
		return r.styles.Value.Render(c.Word)
	default:
		return c.Word
	}
}

func kindLabel(k complete.Kind) string {
	switch k {
	case complete.KindDirectory:
		return "directories"
	case complete.KindCommand:
		return "commands"
	case complete.KindParamName:
		return "parameters"
	case complete.KindFlag:
		return "flags"
	case complete.KindValue:
		return "values"
	default:
		return "paths"
	}
}

// Error renders err. Parse errors include the command usage, the values
// bound so far and the parameters still unbound. Path errors list what the
// directory does contain. Errors linked to an issue get its title as a hint.
func (r *Renderer) Error(err error) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Error.Render("✗ " + err.Error()))

	var pe *binder.ParseError
	if errors.As(err, &pe) {
		r.diagnostic(&sb, pe.Diagnostic)
	}

	var nse *hierarchy.NoSuchEntryError
	if errors.As(err, &nse) && nse.Dir != nil {
		if names := entryNames(nse.Dir); len(names) > 0 {
			sb.WriteString("\n  " + r.styles.Muted.Render("available in "+nse.Dir.Path()+":") + " " + strings.Join(names, "  "))
		}
	}

	if is := issue.For(err); is != nil {
		if title := issueTitle(is); title != "" {
			sb.WriteString("\n  " + r.styles.Muted.Render("hint: "+title))
		}
	}
	return sb.String()
}

func (r *Renderer) diagnostic(sb *strings.Builder, d binder.Diagnostic) {
	if d.Token != "" {
		sb.WriteString("\n  " + r.styles.Muted.Render("at:") + " " + r.styles.Token.Render(d.Token))
	}
	if d.Command == nil {
		return
	}
	sb.WriteString("\n  " + r.styles.Muted.Render("usage:") + " " + r.styles.Command.Render(d.Command.Usage()))
	if names := d.Bound.Names(); len(names) > 0 {
		bound := make([]string, len(names))
		for i, n := range names {
			bound[i] = r.styles.Param.Render(n+"=") + r.styles.Value.Render(formatValue(d.Bound[n]))
		}
		sb.WriteString("\n  " + r.styles.Muted.Render("bound:") + " " + strings.Join(bound, "  "))
	}
	if len(d.Unbound) > 0 {
		unbound := make([]string, len(d.Unbound))
		for i, p := range d.Unbound {
			unbound[i] = r.paramName(p)
		}
		sb.WriteString("\n  " + r.styles.Muted.Render("unbound:") + " " + strings.Join(unbound, "  "))
	}
}

func (r *Renderer) paramName(p *param.Spec) string {
	switch {
	case p.IsFlag():
		return r.styles.Flag.Render(p.Name())
	case p.IsOptional():
		return r.styles.Param.Render("[" + p.Name() + "]")
	default:
		return r.styles.Param.Render(p.Name())
	}
}

func issueTitle(is *issue.Issue) string {
	for _, line := range strings.Split(string(is.MarkdownMsg()), "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return ""
}

func entryNames(dir *hierarchy.Directory) []string {
	var names []string
	for _, d := range dir.Directories() {
		names = append(names, d.Name()+hierarchy.PathDelimiter)
	}
	for _, c := range dir.Commands() {
		names = append(names, c.Name())
	}
	return names
}

// Listing renders the contents of dir as a tree, descending into
// subdirectories when recursive is set.
func (r *Renderer) Listing(dir *hierarchy.Directory, recursive bool) string {
	t := tree.Root(r.styles.Directory.Render(dir.Path())).
		EnumeratorStyle(r.styles.Muted)
	r.addChildren(t, dir, recursive)
	return t.String()
}

// CommandLine renders a single command as a listing line.
func (r *Renderer) CommandLine(cmd *hierarchy.Command) string {
	return r.styles.Command.Render(cmd.Usage()) + r.describeSuffix(cmd.Description())
}

func (r *Renderer) addChildren(t *tree.Tree, dir *hierarchy.Directory, recursive bool) {
	for _, d := range dir.Directories() {
		label := r.styles.Directory.Render(d.Name()+hierarchy.PathDelimiter) + r.describeSuffix(d.Description())
		if recursive && !d.IsEmpty() {
			sub := tree.Root(label).EnumeratorStyle(r.styles.Muted)
			r.addChildren(sub, d, true)
			t.Child(sub)
			continue
		}
		t.Child(label)
	}
	for _, c := range dir.Commands() {
		t.Child(r.CommandLine(c))
	}
}

func (r *Renderer) describeSuffix(desc string) string {
	if desc == "" {
		return ""
	}
	return "  " + r.styles.Muted.Render(firstLine(desc))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}

// Describe renders the description of a directory or a command. With
// markdown enabled the text goes through glamour; otherwise parameters are
// shown in a table.
func (r *Renderer) Describe(e hierarchy.Entry) (string, error) {
	if r.markdown {
		return r.Markdown(DescribeMarkdown(e))
	}
	switch e := e.(type) {
	case *hierarchy.Command:
		return r.describeCommand(e), nil
	case *hierarchy.Directory:
		var sb strings.Builder
		sb.WriteString(r.styles.Title.Render(e.Path()))
		if e.Description() != "" {
			sb.WriteString("\n" + e.Description())
		}
		sb.WriteString("\n" + r.Listing(e, false))
		return sb.String(), nil
	default:
		return "", fmt.Errorf("cannot describe %T", e)
	}
}

func (r *Renderer) describeCommand(cmd *hierarchy.Command) string {
	var sb strings.Builder
	sb.WriteString(r.styles.Title.Render(cmd.Path()))
	if cmd.Description() != "" {
		sb.WriteString("\n" + cmd.Description())
	}
	sb.WriteString("\n" + r.styles.Muted.Render("usage:") + " " + r.styles.Command.Render(cmd.Usage()))
	if len(cmd.Params()) == 0 {
		return sb.String()
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Muted).
		Headers("NAME", "TYPE", "REQUIRED", "DEFAULT", "ACCEPTS", "DESCRIPTION")
	for _, row := range paramRows(cmd) {
		tbl.Row(row...)
	}
	sb.WriteString("\n" + tbl.String())
	return sb.String()
}

// Markdown renders md with the glamour style matching the output.
func (r *Renderer) Markdown(md string) (string, error) {
	gr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(r.glamour),
		glamour.WithWordWrap(r.width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := gr.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// Issue renders an issue page with the glamour style matching the output.
func (r *Renderer) Issue(is *issue.Issue) (string, error) {
	return is.Render(r.glamour)
}

// DescribeMarkdown returns the markdown description of e.
func DescribeMarkdown(e hierarchy.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", e.Path())
	if e.Description() != "" {
		sb.WriteString(e.Description() + "\n\n")
	}

	switch e := e.(type) {
	case *hierarchy.Command:
		fmt.Fprintf(&sb, "```\n%s\n```\n", e.Usage())
		if len(e.Params()) > 0 {
			sb.WriteString("\n## Parameters\n\n")
			sb.WriteString("| Name | Type | Required | Default | Accepts | Description |\n")
			sb.WriteString("|---|---|---|---|---|---|\n")
			for _, row := range paramRows(e) {
				for i, cell := range row {
					row[i] = strings.ReplaceAll(cell, "|", `\|`)
				}
				sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
			}
		}
	case *hierarchy.Directory:
		if dirs := e.Directories(); len(dirs) > 0 {
			sb.WriteString("## Directories\n\n")
			for _, d := range dirs {
				fmt.Fprintf(&sb, "- `%s/` %s\n", d.Name(), firstLine(d.Description()))
			}
			sb.WriteString("\n")
		}
		if cmds := e.Commands(); len(cmds) > 0 {
			sb.WriteString("## Commands\n\n")
			for _, c := range cmds {
				fmt.Fprintf(&sb, "- `%s` %s\n", c.Usage(), firstLine(c.Description()))
			}
		}
	}
	return sb.String()
}

func paramRows(cmd *hierarchy.Command) [][]string {
	rows := make([][]string, 0, len(cmd.Params()))
	for _, p := range cmd.Params() {
		required := "yes"
		if p.IsOptional() {
			required = "no"
		}
		def := ""
		if p.IsOptional() && !p.IsFlag() {
			if v, err := p.Default(); err == nil {
				def = formatValue(v)
			}
		}
		accepts := ""
		if values, ok := p.AcceptedValues(); ok {
			accepts = strings.Join(values.Values(), ", ")
		}
		kind := p.Kind().String()
		if p.IsDirectoriesOnly() {
			kind += " (dir)"
		}
		rows = append(rows, []string{p.Name(), kind, required, def, accepts, firstLine(p.Description())})
	}
	return rows
}

func formatValue(v any) string {
	switch v := v.(type) {
	case hierarchy.Entry:
		return v.Path()
	case string:
		if v == "" || strings.ContainsAny(v, " \t") {
			return fmt.Sprintf("%q", v)
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}
