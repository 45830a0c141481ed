// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ykrasik/jaci-sub001/pkg/binder"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

func noop(context.Context, *hierarchy.Call) error { return nil }

func testRoot(t *testing.T) *hierarchy.Directory {
	t.Helper()
	root, err := hierarchy.NewBuilder().
		AddCommand("people", hierarchy.CommandDef{Name: "add", Exec: noop, Params: []*param.Spec{
			param.String("name"),
			param.Int("age"),
			param.Flag("verbose"),
		}}).
		AddCommand("people", hierarchy.CommandDef{Name: "list", Exec: noop}).
		AddCommand("", hierarchy.CommandDef{Name: "say", Exec: noop, Params: []*param.Spec{
			param.String("text", param.WithAcceptedValues("hello world", "goodbye")),
		}}).
		AddCommand("", hierarchy.CommandDef{Name: "greet", Exec: noop, Params: []*param.Spec{
			param.String("when", param.WithAcceptedValues("good morning", "good night")),
		}}).
		Describe("d", "single letter").
		AddCommand("dirStart", hierarchy.CommandDef{Name: "x", Exec: noop}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return root
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	people, _ := hierarchy.ResolveDirectory("people", root)

	tests := []struct {
		name     string
		wd       *hierarchy.Directory
		line     string
		wantPath string
		wantArgs param.Args
	}{
		{
			name:     "relative path",
			wd:       root,
			line:     "people/add verbose alice 30",
			wantPath: "/people/add",
			wantArgs: param.Args{"name": "alice", "age": 30, "verbose": true},
		},
		{
			name:     "from the working directory",
			wd:       people,
			line:     `add name="Alice Smith" 41`,
			wantPath: "/people/add",
			wantArgs: param.Args{"name": "Alice Smith", "age": 41, "verbose": false},
		},
		{
			name:     "absolute path",
			wd:       people,
			line:     "/say 'hello world'",
			wantPath: "/say",
			wantArgs: param.Args{"text": "hello world"},
		},
		{
			name:     "no parameters",
			wd:       root,
			line:     "  people/list  ",
			wantPath: "/people/list",
			wantArgs: param.Args{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv, err := Resolve(tt.wd, tt.line)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.line, err)
			}
			if inv.Command.Path() != tt.wantPath {
				t.Errorf("Command = %s, want %s", inv.Command.Path(), tt.wantPath)
			}
			if diff := cmp.Diff(tt.wantArgs, inv.Args); diff != "" {
				t.Errorf("Args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	root := testRoot(t)

	tests := []struct {
		line    string
		wantErr error
	}{
		{line: "", wantErr: ErrEmptyLine},
		{line: "   ", wantErr: ErrEmptyLine},
		{line: "nope", wantErr: hierarchy.ErrNoSuchEntry},
		{line: "people", wantErr: hierarchy.ErrNotACommand},
		{line: "say/x", wantErr: hierarchy.ErrNotADirectory},
		{line: "people/add", wantErr: param.ErrMissingMandatoryParameter},
		{line: "people/add age=1 age=2", wantErr: param.ErrAlreadyBound},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			_, err := Resolve(root, tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
			if errors.Is(err, ErrEmptyLine) {
				return
			}
			var pe *binder.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("Resolve(%q) error is %T, want *binder.ParseError", tt.line, err)
			}
		})
	}
}

func TestAssist(t *testing.T) {
	t.Parallel()

	root := testRoot(t)

	tests := []struct {
		name            string
		line            string
		wantNewLine     string
		wantSuggestions []string
		wantCommand     string
	}{
		{
			name:            "empty line lists the working directory",
			line:            "",
			wantNewLine:     "",
			wantSuggestions: []string{"d", "dirStart", "greet", "people", "say"},
		},
		{
			name:        "single directory candidate",
			line:        "di",
			wantNewLine: "dirStart/",
		},
		{
			name:            "several directory candidates",
			line:            "d",
			wantNewLine:     "d",
			wantSuggestions: []string{"d", "dirStart"},
		},
		{
			name:        "command inside a directory",
			line:        "people/a",
			wantNewLine: "people/add ",
		},
		{
			name:            "parameters after the command",
			line:            "people/add ",
			wantNewLine:     "people/add ",
			wantSuggestions: []string{"age", "name", "verbose"},
			wantCommand:     "add",
		},
		{
			name:        "parameter name",
			line:        "people/add alice a",
			wantNewLine: "people/add alice age=",
			wantCommand: "add",
		},
		{
			name:        "value inside an open quote is closed",
			line:        `say "hel`,
			wantNewLine: `say "hello world" `,
			wantCommand: "say",
		},
		{
			name:        "spaced value typed without quotes is quoted",
			line:        "say hel",
			wantNewLine: `say "hello world" `,
			wantCommand: "say",
		},
		{
			name:        "spaced named value is quoted as one token",
			line:        "say text=hel",
			wantNewLine: `say "text=hello world" `,
			wantCommand: "say",
		},
		{
			name:            "spaced common prefix leaves the quote open",
			line:            "greet go",
			wantNewLine:     `greet "good `,
			wantSuggestions: []string{"good morning", "good night"},
			wantCommand:     "greet",
		},
		{
			name:        "completing after the opened quote",
			line:        `greet "good m`,
			wantNewLine: `greet "good morning" `,
			wantCommand: "greet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Assist(root, tt.line)
			if err != nil {
				t.Fatalf("Assist(%q) error = %v", tt.line, err)
			}
			if got.NewLine() != tt.wantNewLine {
				t.Errorf("NewLine() = %q, want %q", got.NewLine(), tt.wantNewLine)
			}
			var words []string
			for _, c := range got.Suggestions() {
				words = append(words, c.Word)
			}
			if diff := cmp.Diff(tt.wantSuggestions, words); diff != "" {
				t.Errorf("Suggestions() mismatch (-want +got):\n%s", diff)
			}
			var cmdName string
			if got.Command != nil {
				cmdName = got.Command.Name()
			}
			if cmdName != tt.wantCommand {
				t.Errorf("Command = %q, want %q", cmdName, tt.wantCommand)
			}
		})
	}
}

func TestAssistErrors(t *testing.T) {
	t.Parallel()

	root := testRoot(t)

	tests := []struct {
		line    string
		wantErr error
	}{
		{line: "zz", wantErr: hierarchy.ErrNoSuchEntry},
		{line: "say/", wantErr: hierarchy.ErrNotADirectory},
		{line: "people ", wantErr: hierarchy.ErrNotACommand},
		{line: "say x", wantErr: param.ErrValueNotAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			_, err := Assist(root, tt.line)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Assist(%q) error = %v, want %v", tt.line, err, tt.wantErr)
			}
		})
	}
}

func TestAssistedLineResolves(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	for _, line := range []string{"say hel", "say text=hel", `say 'hel`, `greet good\ m`} {
		t.Run(line, func(t *testing.T) {
			t.Parallel()

			res, err := Assist(root, line)
			if err != nil {
				t.Fatalf("Assist(%q) error = %v", line, err)
			}
			inv, err := Resolve(root, res.NewLine())
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", res.NewLine(), err)
			}
			if len(inv.Args) != 1 {
				t.Errorf("Resolve(%q) args = %v, want one bound value", res.NewLine(), inv.Args)
			}
		})
	}
}

func TestEdit(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	res, err := Assist(root, "say hel")
	if err != nil {
		t.Fatal(err)
	}
	start, text := res.Edit()
	if start != len("say ") || text != `"hello world" ` {
		t.Errorf("Edit() = %d, %q; want %d, %q", start, text, len("say "), `"hello world" `)
	}

	res, err = Assist(root, "people/a")
	if err != nil {
		t.Fatal(err)
	}
	start, text = res.Edit()
	if start != len("people/a") || text != res.Append() {
		t.Errorf("Edit() = %d, %q; want an append of %q", start, text, res.Append())
	}
}

func TestFallback(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	people, err := hierarchy.ResolveDirectory("people", root)
	if err != nil {
		t.Fatal(err)
	}
	fallback := WithFallback(root)

	t.Run("resolve", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			line     string
			wantPath string
			wantErr  error
		}{
			{line: "say goodbye", wantPath: "/say"},
			{line: "list", wantPath: "/people/list"},
			{line: "./say goodbye", wantErr: hierarchy.ErrNoSuchEntry},
			{line: "people", wantErr: hierarchy.ErrNoSuchEntry},
			{line: "nope", wantErr: hierarchy.ErrNoSuchEntry},
		}
		for _, tt := range tests {
			inv, err := Resolve(people, tt.line, fallback)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				continue
			}
			if err != nil {
				t.Errorf("Resolve(%q) error = %v", tt.line, err)
				continue
			}
			if inv.Command.Path() != tt.wantPath {
				t.Errorf("Resolve(%q) = %s, want %s", tt.line, inv.Command.Path(), tt.wantPath)
			}
		}

		if _, err := Resolve(people, "say goodbye"); !errors.Is(err, hierarchy.ErrNoSuchEntry) {
			t.Errorf("Resolve() without a fallback error = %v, want ErrNoSuchEntry", err)
		}
	})

	t.Run("assist", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			line            string
			wantNewLine     string
			wantSuggestions []string
		}{
			{line: "", wantSuggestions: []string{"add", "greet", "list", "say"}},
			{line: "s", wantNewLine: "say "},
			{line: "l", wantNewLine: "list "},
			{line: "say good", wantNewLine: "say goodbye "},
		}
		for _, tt := range tests {
			res, err := Assist(people, tt.line, fallback)
			if err != nil {
				t.Errorf("Assist(%q) error = %v", tt.line, err)
				continue
			}
			if tt.wantNewLine != "" && res.NewLine() != tt.wantNewLine {
				t.Errorf("Assist(%q) new line = %q, want %q", tt.line, res.NewLine(), tt.wantNewLine)
			}
			var words []string
			for _, c := range res.Suggestions() {
				words = append(words, c.Word)
			}
			if diff := cmp.Diff(tt.wantSuggestions, words); diff != "" {
				t.Errorf("Assist(%q) suggestions mismatch (-want +got):\n%s", tt.line, diff)
			}
		}

		if _, err := Assist(people, "s"); !errors.Is(err, hierarchy.ErrNoSuchEntry) {
			t.Errorf("Assist() without a fallback error = %v, want ErrNoSuchEntry", err)
		}
	})
}
