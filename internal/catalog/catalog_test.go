// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/pkg/cueutil"
	"github.com/ykrasik/jaci-sub001/pkg/engine"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
)

const cueCatalog = `
directories: [{path: "net", description: "Network tools"}]
commands: [{
	name:        "ping"
	path:        "net"
	description: "Ping a host"
	params: [
		{name: "host", type: "string"},
		{name: "count", type: "int", default: 2},
		{name: "proto", type: "string", accepts: ["tcp", "udp"], optional: true},
		{name: "verbose", type: "flag"},
	]
	script: """
		echo "host=$1 count=$2 proto=$3 verbose=$4"
		echo "env=$JACI_ARG_HOST cmd=$JACI_COMMAND"
		"""
}, {
	name:   "fail"
	script: "echo oops >&2; exit 3"
}]
`

const tomlCatalog = `
[[directories]]
path = "db"
description = "Database tools"

[[commands]]
name = "query"
path = "db"
script = "echo query $1 limit=$2"

[[commands.params]]
name = "sql"
type = "string"

[[commands.params]]
name = "limit"
type = "int"
default = 10
`

const yamlCatalog = `
commands:
  - name: where
    path: fs
    params:
      - name: target
        type: entry
        default: "."
      - name: ratio
        type: double
        default: 1
    script: echo "$1 $2"
`

var quiet = log.New(io.Discard)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func build(t *testing.T, cats ...*Catalog) *hierarchy.Directory {
	t.Helper()
	root, err := Build(hierarchy.NewBuilder(), cats, quiet)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return root
}

func run(t *testing.T, root *hierarchy.Directory, line string) (string, string, error) {
	t.Helper()
	inv, err := engine.Resolve(root, line)
	if err != nil {
		t.Fatalf("Resolve(%q) error = %v", line, err)
	}
	var stdout, stderr bytes.Buffer
	err = inv.Command.Execute(context.Background(), &hierarchy.Call{
		Args:   inv.Args,
		Stdout: &stdout,
		Stderr: &stderr,
	})
	return stdout.String(), stderr.String(), err
}

func TestFormatOf(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"a.cue":      FormatCUE,
		"dir/b.TOML": FormatTOML,
		"c.yaml":     FormatYAML,
		"d.yml":      FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		if err != nil || got != want {
			t.Errorf("FormatOf(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := FormatOf("e.json"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("FormatOf(.json) error = %v, want ErrUnknownFormat", err)
	}
}

func TestParseCUE(t *testing.T) {
	t.Parallel()

	cat, err := Parse([]byte(cueCatalog), FormatCUE, "tools.cue")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"/net/ping", "/fail"}, cat.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if got := cat.Commands[0].Params[2].Accepts; !cmp.Equal(got, []string{"tcp", "udp"}) {
		t.Errorf("accepts = %v", got)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  Format
		content string
	}{
		{name: "missing script", format: FormatCUE, content: `commands: [{name: "x"}]`},
		{name: "bad type", format: FormatCUE, content: `commands: [{name: "x", script: "true", params: [{name: "a", type: "date"}]}]`},
		{name: "name with space", format: FormatCUE, content: `commands: [{name: "x y", script: "true"}]`},
		{name: "unknown field", format: FormatCUE, content: `command: []`},
		{name: "toml bad type", format: FormatTOML, content: "[[commands]]\nname = 1\nscript = \"true\"\n"},
		{name: "yaml unknown field", format: FormatYAML, content: "commands:\n  - name: x\n    script: \"true\"\n    run: y\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.content), tt.format, "catalog")
			if !errors.Is(err, cueutil.ErrValidation) {
				t.Errorf("Parse() error = %v, want a validation error", err)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("[[commands"), FormatTOML, "bad.toml"); err == nil || !strings.Contains(err.Error(), "invalid TOML") {
		t.Errorf("TOML error = %v", err)
	}
	if _, err := Parse([]byte("commands: [\n"), FormatYAML, "bad.yaml"); err == nil || !strings.Contains(err.Error(), "invalid YAML") {
		t.Errorf("YAML error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.cue"))
	if is := issue.For(err); is == nil || is.Id() != issue.CatalogNotFoundId {
		t.Errorf("Load() of a missing file error = %v, want the catalog not found issue", err)
	}

	path := writeFile(t, "bad.cue", `commands: [{name: "x"}]`)
	_, err = Load(path)
	if is := issue.For(err); is == nil || is.Id() != issue.CatalogParseErrorId {
		t.Errorf("Load() of an invalid file error = %v, want the catalog parse issue", err)
	}
	if !errors.Is(err, cueutil.ErrValidation) {
		t.Errorf("Load() error = %v, want the validation error in the chain", err)
	}

	path = writeFile(t, "cat.json", `{}`)
	if _, err = Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load() of a .json file error = %v, want ErrUnknownFormat", err)
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.cue", "a.cue", filepath.Join("sub", "c.yaml"), "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	plain := filepath.Join(dir, "missing.toml")

	got, err := Expand([]string{
		filepath.Join(dir, "*.cue"),
		plain,
		filepath.Join(dir, "**", "*.{yaml,cue}"),
		filepath.Join(dir, "none", "*.cue"),
	})
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.cue"),
		filepath.Join(dir, "b.cue"),
		plain,
		filepath.Join(dir, "sub", "c.yaml"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
	}

	if _, err := Expand([]string{filepath.Join(dir, "x[.cue")}); err == nil {
		t.Error("Expand() of a malformed pattern should fail")
	}
	if !IsPattern("cats/**/*.cue") || IsPattern("cats/tools.cue") {
		t.Error("IsPattern() misclassified an entry")
	}
}

func TestLoadAllExpandsPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "net.cue"), []byte(cueCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	cats, err := LoadAll([]string{filepath.Join(dir, "*.cue")})
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(cats) != 1 || cats[0].Source != filepath.Join(dir, "net.cue") {
		t.Errorf("LoadAll() = %v", cats)
	}
}

func TestScriptExecution(t *testing.T) {
	t.Parallel()

	cat, err := Load(writeFile(t, "tools.cue", cueCatalog))
	if err != nil {
		t.Fatal(err)
	}
	root := build(t, cat)

	net, _ := root.Directory("net")
	if net.Description() != "Network tools" {
		t.Errorf("directory description = %q", net.Description())
	}

	stdout, _, err := run(t, root, "net/ping example.com proto=udp verbose")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	want := "host=example.com count=2 proto=udp verbose=true\nenv=example.com cmd=/net/ping\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	stdout, _, err = run(t, root, `net/ping "-v host" 5`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "host=-v host count=5 proto= verbose=false\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestScriptFailure(t *testing.T) {
	t.Parallel()

	cat, err := Parse([]byte(cueCatalog), FormatCUE, "tools.cue")
	if err != nil {
		t.Fatal(err)
	}
	_, stderr, err := run(t, build(t, cat), "fail")
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != 3 || !errors.Is(err, ErrScriptFailed) {
		t.Errorf("Execute() error = %v, want exit status 3", err)
	}
	if stderr != "oops\n" {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestTOMLAndYAMLCatalogs(t *testing.T) {
	t.Parallel()

	tomlCat, err := Load(writeFile(t, "db.toml", tomlCatalog))
	if err != nil {
		t.Fatalf("Load(toml) error = %v", err)
	}
	yamlCat, err := Load(writeFile(t, "fs.yaml", yamlCatalog))
	if err != nil {
		t.Fatalf("Load(yaml) error = %v", err)
	}
	root := build(t, tomlCat, yamlCat)

	db, _ := root.Directory("db")
	if db.Description() != "Database tools" {
		t.Errorf("db description = %q", db.Description())
	}
	stdout, _, err := run(t, root, `db/query "select 1"`)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "query select 1 limit=10\n" {
		t.Errorf("stdout = %q", stdout)
	}

	stdout, _, err = run(t, root, "fs/where /db/query")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "/db/query 1.0\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestBuildReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cat := &Catalog{Commands: []Command{
		{Name: "a", Script: "echo ("},
		{Name: "b", Script: "true", Params: []Param{{Name: "n", Type: "int", Default: "x"}}},
		{Name: "c", Script: "true", Params: []Param{{Name: "f", Type: "flag", Default: true}}},
	}}
	_, err := Build(hierarchy.NewBuilder(), []*Catalog{cat}, quiet)
	if err == nil {
		t.Fatal("Build() should fail")
	}
	if is := issue.For(err); is == nil || is.Id() != issue.CatalogBuildFailedId {
		t.Errorf("Build() error = %v, want the build issue", err)
	}
	for _, want := range []string{`commands[0] "a"`, "script syntax error", `commands[1] "b"`, "type mismatch"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Build() error = %v, missing %q", err, want)
		}
	}
}

func TestBuildDetectsCollisions(t *testing.T) {
	t.Parallel()

	a := &Catalog{Source: "a.cue", Commands: []Command{{Name: "run", Path: "x", Script: "true"}}}
	b := &Catalog{Source: "b.cue", Commands: []Command{{Name: "run", Path: "x", Script: "true"}}}
	_, err := Build(hierarchy.NewBuilder(), []*Catalog{a, b}, quiet)
	if !errors.Is(err, hierarchy.ErrNameConflict) {
		t.Errorf("Build() error = %v, want ErrNameConflict", err)
	}

	c := &Catalog{Commands: []Command{{Name: "bad", Script: "true", Params: []Param{
		{Name: "n", Type: "int", Accepts: []string{"1"}},
	}}}}
	_, err = Build(hierarchy.NewBuilder(), []*Catalog{c}, quiet)
	if !errors.Is(err, param.ErrInvalidSpec) {
		t.Errorf("Build() error = %v, want ErrInvalidSpec", err)
	}
}

func TestParamSpec(t *testing.T) {
	t.Parallel()

	spec, err := Param{Name: "d", Type: "double", Default: int64(2)}.Spec()
	if err != nil {
		t.Fatal(err)
	}
	v, err := spec.Default()
	if err != nil || v != 2.0 {
		t.Errorf("Default() = %v, %v; want 2.0", v, err)
	}

	spec, err = Param{Name: "dir", Type: "entry", DirectoriesOnly: true, Optional: true}.Spec()
	if err != nil {
		t.Fatal(err)
	}
	if !spec.IsOptional() || !spec.IsDirectoriesOnly() {
		t.Errorf("spec = %+v, want an optional directories-only entry", spec)
	}

	if _, err := (Param{Name: "x", Type: "date"}).Spec(); err == nil {
		t.Error("Spec() should reject an unknown type")
	}
}

func TestArgEnvName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"host":      "JACI_ARG_HOST",
		"max-count": "JACI_ARG_MAX_COUNT",
		"a.b2":      "JACI_ARG_A_B2",
	}
	for name, want := range tests {
		if got := ArgEnvName(name); got != want {
			t.Errorf("ArgEnvName(%q) = %q, want %q", name, got, want)
		}
	}
}
