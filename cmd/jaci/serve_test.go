// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ykrasik/jaci-sub001/internal/config"
	"github.com/ykrasik/jaci-sub001/internal/metrics"
	"github.com/ykrasik/jaci-sub001/internal/testutil"
	"github.com/ykrasik/jaci-sub001/internal/watch"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

func TestServeUntilCanceled(t *testing.T) {
	t.Parallel()

	provider := demoProvider(t)
	provider.cfg.SSH.HostKeyPath = filepath.Join(t.TempDir(), "host_ed25519")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	stdout, _, err := executeContext(t, ctx, provider, "",
		"serve", "--host", "127.0.0.1", "--port", "0", "--metrics-addr", "127.0.0.1:0", "--watch")
	if err != nil {
		t.Fatalf("serve error = %v", err)
	}
	for _, want := range []string{"Serving console on 127.0.0.1:", "ssh -p "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout %q does not contain %q", stdout, want)
		}
	}
}

func TestServeInvalidPort(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.SSH.HostKeyPath = filepath.Join(t.TempDir(), "host_ed25519")
	_, _, err := execute(t, &stubProvider{cfg: cfg}, "", "serve", "--port", "70000")
	if err == nil || !strings.Contains(formatErrorForDisplay(err, false), "start SSH server") {
		t.Errorf("serve error = %v", err)
	}
}

func TestWaitServe(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	sshErr := make(chan error, 1)
	sshErr <- boom
	if err := waitServe(context.Background(), sshErr, nil, nil); !errors.Is(err, boom) {
		t.Errorf("waitServe() = %v, want %v", err, boom)
	}

	closed := make(chan error)
	close(closed)
	if err := waitServe(context.Background(), nil, closed, nil); err != nil {
		t.Errorf("waitServe() with a closed channel = %v", err)
	}

	watchErr := make(chan error, 1)
	watchErr <- boom
	if err := waitServe(context.Background(), nil, nil, watchErr); !errors.Is(err, boom) {
		t.Errorf("waitServe() with a failed watcher = %v, want %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := waitServe(ctx, nil, nil, nil); err != nil {
		t.Errorf("waitServe() after cancel = %v", err)
	}
}

type rootRecorder chan *hierarchy.Directory

func (r rootRecorder) SetRoot(root *hierarchy.Directory) { r <- root }

func TestCatalogWatcherReloads(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, "demo.cue", demoCatalog)
	app := NewApp(Dependencies{Stdout: io.Discard, Stderr: io.Discard})
	roots := make(rootRecorder, 4)
	m := metrics.New()

	w, err := newCatalogWatcher(app, []string{path}, roots, m)
	if err != nil {
		t.Fatalf("newCatalogWatcher() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()
	time.Sleep(50 * time.Millisecond)

	// A broken catalog keeps the current hierarchy.
	testutil.MustWriteFile(t, filepath.Dir(path), "demo.cue", `commands: [{name: "x"}]`)
	time.Sleep(time.Second)
	select {
	case <-roots:
		t.Fatal("a broken catalog replaced the hierarchy")
	default:
	}

	testutil.MustWriteFile(t, filepath.Dir(path), "demo.cue", `
directories: [{path: "demo"}]
commands: [{name: "wave", path: "demo", script: "echo wave"}]
`)
	select {
	case root := <-roots:
		demo, ok := root.Directory("demo")
		if !ok {
			t.Fatal("reloaded hierarchy has no demo directory")
		}
		if _, ok := demo.Command("wave"); !ok {
			t.Error("reloaded hierarchy is missing the new command")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the reload")
	}
}

func TestCatalogWatcherWithoutCatalogs(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{Stdout: io.Discard, Stderr: io.Discard})
	if _, err := newCatalogWatcher(app, nil, make(rootRecorder), metrics.New()); !errors.Is(err, watch.ErrNoPaths) {
		t.Errorf("newCatalogWatcher() error = %v, want ErrNoPaths", err)
	}
}
