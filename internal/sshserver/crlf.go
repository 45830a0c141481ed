// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"bytes"
	"io"
)

// crlfWriter translates "\n" to "\r\n". A "\n" already preceded by "\r",
// including one split across writes, is passed through.
type crlfWriter struct {
	w      io.Writer
	lastCR bool
}

func newCRLFWriter(w io.Writer) *crlfWriter {
	return &crlfWriter{w: w}
}

// Write implements io.Writer. It reports len(p) on success.
func (c *crlfWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	var buf bytes.Buffer
	buf.Grow(len(p) + bytes.Count(p, []byte{'\n'}))
	prevCR := c.lastCR
	for _, b := range p {
		if b == '\n' && !prevCR {
			buf.WriteByte('\r')
		}
		buf.WriteByte(b)
		prevCR = b == '\r'
	}
	if _, err := c.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	c.lastCR = prevCR
	return len(p), nil
}
