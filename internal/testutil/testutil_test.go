// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type stopper struct {
	stopped bool
	err     error
}

func (s *stopper) Stop() error {
	s.stopped = true
	return s.err
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := MustWriteFile(t, dir, filepath.Join("a", "b.cue"), "x: 1\n")
	if path != filepath.Join(dir, "a", "b.cue") {
		t.Errorf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "x: 1\n" {
		t.Errorf("content = %q, %v", data, err)
	}
}

func TestMustStop(t *testing.T) {
	t.Parallel()

	for _, s := range []*stopper{{}, {err: errors.New("already stopped")}} {
		MustStop(t, s)
		if !s.stopped {
			t.Error("Stop() was not called")
		}
	}
}

func TestSetConfigHome(t *testing.T) {
	dir := t.TempDir()
	got := SetConfigHome(t, dir, "jaci")
	if filepath.Base(got) != "jaci" {
		t.Errorf("SetConfigHome() = %q", got)
	}
	if rel, err := filepath.Rel(dir, got); err != nil || rel == ".." {
		t.Errorf("SetConfigHome() = %q is not under %q", got, dir)
	}
}
