// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ykrasik/jaci-sub001/internal/console"
)

// commentPrefix starts a line RunScript skips.
const commentPrefix = "#"

// ErrScriptAborted is wrapped by the error RunScript returns when a line
// fails.
var ErrScriptAborted = errors.New("script aborted")

// LineError reports the script line that failed.
type LineError struct {
	Line int
	Text string
	Err  error
}

// Error implements the error interface.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Text, e.Err)
}

// Unwrap returns ErrScriptAborted and the line's failure.
func (e *LineError) Unwrap() []error { return []error{ErrScriptAborted, e.Err} }

// RunScript executes every line of in, skipping blank lines and comments.
// The first failing line is reported on the session's stderr and stops the
// script.
func RunScript(ctx context.Context, session *console.Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	n := 0
	for scanner.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if err := session.Run(ctx, line); err != nil {
			return &LineError{Line: n, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}
	return nil
}
