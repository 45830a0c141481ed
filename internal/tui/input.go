// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"bufio"
	"io"
)

// lineInput hands out at most one line per Read.
type lineInput struct {
	r       *bufio.Reader
	pending []byte
}

// LineInput wraps r for accessible prompts, which read every answer with a
// fresh scanner: without it the first prompt buffers and drops the answers
// to the following ones. Wrap a reader once and share the result.
func LineInput(r io.Reader) io.Reader {
	return &lineInput{r: bufio.NewReader(r)}
}

func (l *lineInput) Read(p []byte) (int, error) {
	if len(l.pending) == 0 {
		line, err := l.r.ReadBytes('\n')
		if len(line) == 0 {
			return 0, err
		}
		l.pending = line
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
