// SPDX-License-Identifier: MPL-2.0

package repl

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/ykrasik/jaci-sub001/internal/console"
	"github.com/ykrasik/jaci-sub001/pkg/engine"
	"github.com/ykrasik/jaci-sub001/pkg/tokenize"
)

type (
	// completer adapts Session.Assist to the line editor. Candidates are
	// printed above the prompt; the editor only receives the text to insert.
	completer struct {
		session *console.Session
		out     func() io.Writer
		// pending is a completion that rewrites text before the caret. The
		// editor inserts only at the caret, so onChange applies it after Tab.
		pending *rewrite
	}

	rewrite struct {
		line []rune
		pos  int
	}
)

// Do implements readline.AutoCompleter.
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	c.pending = nil
	text := string(line[:pos])
	res, ok := c.assist(text)
	if !ok {
		return nil, 0
	}
	if s := c.session.Renderer().Suggestions(res.Result); s != "" {
		c.println(s)
	}
	start, insert := res.Edit()
	if start < len(text) {
		head := []rune(text[:start] + insert)
		c.pending = &rewrite{line: append(head, line[pos:]...), pos: len(head)}
		return nil, 0
	}
	if insert == "" {
		return nil, 0
	}
	return [][]rune{[]rune(insert)}, len([]rune(res.Prefix))
}

// onChange implements readline.Listener: Tab applies a pending rewrite and
// '?' lists the candidates.
func (c *completer) onChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key == readline.CharTab {
		p := c.pending
		c.pending = nil
		if p == nil {
			return nil, 0, false
		}
		return p.line, p.pos, true
	}
	return c.help(line, pos, key)
}

// help lists the candidates at the cursor when '?' is typed outside of
// quotes. The '?' itself is removed from the line.
func (c *completer) help(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key != '?' || pos < 1 || pos > len(line) {
		return nil, 0, false
	}
	text := string(line[:pos-1])
	if tokenize.Split(text).OpenQuote != 0 {
		return nil, 0, false
	}
	clean := make([]rune, 0, len(line)-1)
	clean = append(clean, line[:pos-1]...)
	clean = append(clean, line[pos:]...)

	res, ok := c.assist(text)
	if !ok {
		return clean, pos - 1, true
	}
	switch {
	case res.Size() > 0:
		c.println(c.session.Renderer().Suggestions(res.Result) + c.usage(res))
	case res.Command != nil:
		c.println(c.session.Renderer().CommandLine(res.Command))
	default:
		c.println("(no suggestions)")
	}
	return clean, pos - 1, true
}

// assist runs Assist and prints a failure. ok is false on failure.
func (c *completer) assist(text string) (*engine.AssistResult, bool) {
	res, err := c.session.Assist(text)
	if err != nil {
		c.println(c.session.Renderer().Error(err))
		return nil, false
	}
	return res, true
}

// usage returns the usage line of the command being completed, if any, for
// '?' help.
func (c *completer) usage(res *engine.AssistResult) string {
	if res.Command == nil || len(res.Suggestions()) == 0 {
		return ""
	}
	return "\n" + c.session.Renderer().CommandLine(res.Command)
}

func (c *completer) println(s string) {
	_, _ = fmt.Fprintf(c.out(), "\n%s\n", s) //nolint:errcheck // terminal output
}
