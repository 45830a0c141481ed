// SPDX-License-Identifier: MPL-2.0

// Package tokenize splits a raw command line into tokens.
//
// Tokens are separated by whitespace. A span enclosed in double or single
// quotes is part of one token with the quotes removed; there are no escapes
// and no nesting. Quoted and unquoted runs that touch join into one token, so
// name="John Smith" is the single token name=John Smith.
package tokenize

import (
	"strings"
	"unicode"
)

// Line is a tokenized command line.
type Line struct {
	// Tokens are the line's tokens in order.
	Tokens []string
	// TrailingSpace reports whether the line ends with unquoted whitespace,
	// i.e. the caret sits at the start of a new, empty token.
	TrailingSpace bool
	// OpenQuote is the quote character left unterminated at the end of the
	// line, or 0.
	OpenQuote rune
	// Start is the byte offset in the line where the token at the caret
	// begins, quotes included. It is the line's length when the caret
	// starts a new token.
	Start int
}

// Split tokenizes line. An unterminated quote extends to the end of the line.
func Split(line string) Line {
	var (
		out     Line
		sb      strings.Builder
		inToken bool
		quote   rune
	)
	flush := func() {
		if inToken {
			out.Tokens = append(out.Tokens, sb.String())
			sb.Reset()
			inToken = false
		}
	}

	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			sb.WriteRune(r)
		case r == '"' || r == '\'':
			if !inToken {
				out.Start = i
			}
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			flush()
		default:
			if !inToken {
				out.Start = i
			}
			sb.WriteRune(r)
			inToken = true
		}
	}

	out.OpenQuote = quote
	out.TrailingSpace = quote == 0 && !inToken && line != "" && endsWithSpace(line)
	if !inToken {
		out.Start = len(line)
	}
	flush()
	return out
}

// Completing splits the line for completion: the tokens before the caret and
// the partial token at the caret, which is empty after trailing whitespace.
func (l Line) Completing() (done []string, partial string) {
	if l.TrailingSpace || len(l.Tokens) == 0 {
		return l.Tokens, ""
	}
	return l.Tokens[:len(l.Tokens)-1], l.Tokens[len(l.Tokens)-1]
}

func endsWithSpace(s string) bool {
	r := []rune(s)
	return unicode.IsSpace(r[len(r)-1])
}
