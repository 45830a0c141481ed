// SPDX-License-Identifier: MPL-2.0

package tokenize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "ping", want: "ping"},
		{in: "name=value", want: "name=value"},
		{in: "", want: `""`},
		{in: "hello world", want: `"hello world"`},
		{in: `a "b" c`, want: `'a "b" c'`},
		{in: "it's", want: `"it's"`},
		{in: `it's "x"`, want: `"it's "'"'"x"'"'`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestJoinSplitsBack(t *testing.T) {
	t.Parallel()

	tests := [][]string{
		{"net/ping", "a"},
		{"say", "hello world"},
		{"say", `a "b" c`},
		{"say", ""},
		{"greet", "name=John Smith", `quote=she said "it's"`},
	}
	for _, tokens := range tests {
		line := Join(tokens)
		if diff := cmp.Diff(tokens, Split(line).Tokens); diff != "" {
			t.Errorf("Split(Join(%q)) = Split(%s) mismatch (-want +got):\n%s", tokens, line, diff)
		}
	}
}
