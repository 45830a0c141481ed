// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ykrasik/jaci-sub001/internal/issue"
	"github.com/ykrasik/jaci-sub001/pkg/cueutil"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
catalogs: ["tools.cue", "/abs/net.yaml"]
ui: color_scheme: "dark"
ssh: {
	port: 2323
	metrics_addr: ":9100"
}
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark || !cfg.UI.Markdown {
		t.Errorf("UI = %+v, want dark with the markdown default kept", cfg.UI)
	}
	if cfg.SSH.Port != 2323 || cfg.SSH.Host != "localhost" || cfg.SSH.MetricsAddr != ":9100" {
		t.Errorf("SSH = %+v", cfg.SSH)
	}
	wantCatalogs := []string{filepath.Join(dir, "tools.cue"), "/abs/net.yaml"}
	if diff := cmp.Diff(wantCatalogs, cfg.CatalogPaths()); diff != "" {
		t.Errorf("CatalogPaths() mismatch (-want +got):\n%s", diff)
	}
	if cfg.SSHAddr() != "localhost:2323" {
		t.Errorf("SSHAddr() = %q", cfg.SSHAddr())
	}
}

func TestLoadRejectsSchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown field", content: `colour: "red"`},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`},
		{name: "port out of range", content: `ssh: port: 70000`},
		{name: "wrong type", content: `prompt: 3`},
		{name: "syntax error", content: `ui: {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("Load() should fail")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("Load() error = %v, want an actionable config error", err)
			}
			if tt.name != "syntax error" && !errors.Is(err, cueutil.ErrValidation) {
				t.Errorf("Load() error = %v, want a schema validation error", err)
			}
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `prompt: "dev"`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prompt != "dev" {
		t.Errorf("Prompt = %q, want dev", cfg.Prompt)
	}

	_, err = NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v, want a not found error", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

//nolint:paralleltest // t.Setenv cannot be used with t.Parallel
func TestLoadEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `ssh: port: 2323`)
	t.Setenv("JACI_SSH_PORT", "4000")
	t.Setenv("JACI_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SSH.Port != 4000 || !cfg.UI.Verbose {
		t.Errorf("environment overrides not applied: port=%d verbose=%v", cfg.SSH.Port, cfg.UI.Verbose)
	}
}

//nolint:paralleltest // t.Setenv cannot be used with t.Parallel
func TestLoadValidatesEnvironmentValues(t *testing.T) {
	t.Setenv("JACI_UI_COLOR_SCHEME", "neon")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("Load() error = %v, want an invalid color scheme", err)
	}
}

func TestGenerateCUERoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Catalogs = []string{"a.cue", "b.toml"}
	cfg.SSH.Password = "secret"
	cfg.SSH.MetricsAddr = ":9100"
	cfg.SSH.WatchCatalogs = true
	cfg.UI.ColorScheme = ColorSchemeLight

	dir := t.TempDir()
	path := writeConfig(t, dir, GenerateCUE(cfg))
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	cfg.Source = path
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	created, err := CreateDefaultConfig(path)
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %v, %v; want true, nil", created, err)
	}
	created, err = CreateDefaultConfig(path)
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = %v, %v; want false, nil", created, err)
	}
}

func TestColorSchemeValidate(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if err := cs.Validate(); err != nil {
			t.Errorf("%q.Validate() error = %v", cs, err)
		}
	}
	if err := ColorScheme("").Validate(); !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("empty color scheme error = %v", err)
	}
}
