// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

func noop(context.Context, *hierarchy.Call) error { return nil }

func testRoot(t *testing.T) *hierarchy.Directory {
	t.Helper()
	root, err := hierarchy.NewBuilder().
		AddCommand("sys", hierarchy.CommandDef{Name: "uptime", Description: "Show uptime\nfor the host", Exec: noop}).
		AddCommand("net", hierarchy.CommandDef{
			Name:        "ping",
			Description: "Ping a host",
			Params: []*param.Spec{
				param.String("host", param.WithDescription("Host to ping")),
				param.Int("count", param.WithDefault(2)),
				param.String("proto", param.WithAcceptedValues("tcp", "udp"), param.Optional()),
				param.Flag("verbose"),
			},
			Exec: noop,
		}).
		AddCommand("", hierarchy.CommandDef{
			Name:   "show",
			Params: []*param.Spec{param.Entry("target", param.Optional()), param.Bool("all", param.WithDefault(true))},
			Exec:   noop,
		}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return root
}

func accessible(lines ...string) Config {
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	return Config{Accessible: true, Input: LineInput(in), Output: io.Discard}
}

func TestLineInput(t *testing.T) {
	t.Parallel()

	r := LineInput(strings.NewReader("first\nsecond line\nlast"))
	buf := make([]byte, 64)
	var got []string
	for {
		n, err := r.Read(buf)
		if n > 0 {
			got = append(got, string(buf[:n]))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("Read() error = %v", err)
			}
			break
		}
	}
	want := []string{"first\n", "second line\n", "last"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("reads mismatch (-want +got):\n%s", diff)
	}

	small := LineInput(strings.NewReader("abcdef\n"))
	part := make([]byte, 4)
	if n, _ := small.Read(part); string(part[:n]) != "abcd" {
		t.Errorf("first short read = %q", part[:n])
	}
	if n, _ := small.Read(part); string(part[:n]) != "ef\n" {
		t.Errorf("second short read = %q", part[:n])
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	var got []string
	for _, c := range Commands(testRoot(t)) {
		got = append(got, c.Path())
	}
	want := []string{"/net/ping", "/show", "/sys/uptime"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
}

func TestPickCommand(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{name: "by number", input: []string{"3"}, want: "/sys/uptime"},
		{name: "blank picks the first", input: []string{""}, want: "/net/ping"},
		{name: "out of range is asked again", input: []string{"9", "2"}, want: "/show"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PickCommand(context.Background(), root, accessible(tt.input...))
			if err != nil {
				t.Fatalf("PickCommand() error = %v", err)
			}
			if got.Path() != tt.want {
				t.Errorf("PickCommand() = %s, want %s", got.Path(), tt.want)
			}
		})
	}
}

func TestPickCommandEmptyHierarchy(t *testing.T) {
	t.Parallel()

	root, err := hierarchy.NewBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PickCommand(context.Background(), root, accessible()); !errors.Is(err, ErrNoCommands) {
		t.Errorf("PickCommand() error = %v, want ErrNoCommands", err)
	}
}

func TestPromptLine(t *testing.T) {
	t.Parallel()

	root := testRoot(t)
	ping, err := hierarchy.ResolveCommand("net/ping", root)
	if err != nil {
		t.Fatal(err)
	}
	show, err := hierarchy.ResolveCommand("show", root)
	if err != nil {
		t.Fatal(err)
	}
	uptime, err := hierarchy.ResolveCommand("sys/uptime", root)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		cmd   *hierarchy.Command
		input []string
		want  string
	}{
		{
			name:  "every answer",
			cmd:   ping,
			input: []string{"example.com", "3", "3", "y"},
			want:  "/net/ping host=example.com count=3 proto=udp verbose",
		},
		{
			name:  "invalid answers are asked again",
			cmd:   ping,
			input: []string{"", "example.com", "abc", "4", "2", "n"},
			want:  "/net/ping host=example.com count=4 proto=tcp",
		},
		{
			name:  "blank optionals keep their defaults",
			cmd:   ping,
			input: []string{"a b", "", "", ""},
			want:  `/net/ping "host=a b"`,
		},
		{
			name:  "entry and bool",
			cmd:   show,
			input: []string{"/net/", "n"},
			want:  "/show target=/net/ all=false",
		},
		{
			name: "no parameters",
			cmd:  uptime,
			want: "/sys/uptime",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PromptLine(context.Background(), tt.cmd, root, accessible(tt.input...))
			if err != nil {
				t.Fatalf("PromptLine() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PromptLine() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    *param.Spec
		in      string
		wantErr error
	}{
		{name: "mandatory blank", spec: param.String("host"), in: "  ", wantErr: errRequired},
		{name: "optional blank", spec: param.Int("n", param.Optional()), in: ""},
		{name: "int", spec: param.Int("n"), in: "12"},
		{name: "not an int", spec: param.Int("n"), in: "x", wantErr: param.ErrTypeMismatch},
		{name: "not accepted", spec: param.String("p", param.WithAcceptedValues("a")), in: "b", wantErr: param.ErrValueNotAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validate(tt.spec, tt.in)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionLabel(t *testing.T) {
	t.Parallel()

	got := make([]string, 0, 3)
	for _, c := range Commands(testRoot(t)) {
		got = append(got, optionLabel(c))
	}
	want := []string{"/net/ping  Ping a host", "/show", "/sys/uptime  Show uptime"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("optionLabel() mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(describe(param.Int("count", param.WithDefault(2), param.WithDescription("Pings"))), "int, optional: Pings") {
		t.Error("describe() lacks the kind or optional marker")
	}
}
