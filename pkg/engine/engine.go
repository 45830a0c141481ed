// SPDX-License-Identifier: MPL-2.0

// Package engine resolves raw command lines against a hierarchy.
//
// A line's first token is the path of a command, relative to the working
// directory unless it starts with "/". With WithFallback, a bare command name
// missing from the working directory is looked up in a fallback directory
// as well. The remaining tokens are bound to the
// command's parameters. Resolve prepares a line for execution and Assist
// completes the token at the end of a partially typed line. Both are pure
// functions of the working directory and the line.
package engine

import (
	"errors"
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/binder"
	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
	"github.com/ykrasik/jaci-sub001/pkg/param"
	"github.com/ykrasik/jaci-sub001/pkg/tokenize"
)

// ErrEmptyLine is returned by Resolve for a line without tokens.
var ErrEmptyLine = errors.New("empty command line")

type (
	// Invocation is a fully resolved command line, ready to execute.
	Invocation struct {
		Command *hierarchy.Command
		Args    param.Args
	}

	// AssistResult is the completion of the token at the end of a line.
	AssistResult struct {
		complete.Result
		// Line is the line that was completed.
		Line string
		// Command is the command whose parameters were completed, or nil when
		// the command path itself was completed.
		Command *hierarchy.Command
		// Quote is the quote left open at the end of Line, or 0.
		Quote rune
		// Token is the unfinished token at the end of Line, quotes removed.
		Token string
		// TokenStart is the byte offset in Line where Token begins.
		TokenStart int
	}

	// Option configures Resolve and Assist.
	Option func(*options)

	options struct {
		fallback *hierarchy.Directory
	}
)

// WithFallback resolves and completes bare command names, those without a
// "/", against dir's commands when the working directory has no entry of
// that name. Consoles pass the root so that the system commands work from
// every directory.
func WithFallback(dir *hierarchy.Directory) Option {
	return func(o *options) { o.fallback = dir }
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolve tokenizes line, resolves its command from wd and binds the
// remaining tokens. Failures are *binder.ParseError values.
func Resolve(wd *hierarchy.Directory, line string, opts ...Option) (*Invocation, error) {
	tokens := tokenize.Split(line).Tokens
	if len(tokens) == 0 {
		return nil, ErrEmptyLine
	}
	cmd, err := newOptions(opts).resolveCommand(tokens[0], wd)
	if err != nil {
		return nil, pathError(err, tokens[0])
	}
	args, err := binder.Bind(cmd, wd, tokens[1:])
	if err != nil {
		return nil, err
	}
	return &Invocation{Command: cmd, Args: args}, nil
}

// Assist completes the last token of line. A line holding a single
// unfinished token completes the command path; otherwise the command is
// resolved and its parameters are completed. Failures are
// *binder.ParseError values.
func Assist(wd *hierarchy.Directory, line string, opts ...Option) (*AssistResult, error) {
	o := newOptions(opts)
	tl := tokenize.Split(line)
	done, partial := tl.Completing()
	result := &AssistResult{Line: line, Quote: tl.OpenQuote, Token: partial, TokenStart: tl.Start}

	if len(done) == 0 {
		r, err := o.completeCommandPath(partial, wd)
		if err != nil {
			return nil, pathError(err, partial)
		}
		result.Result = r
		return result, nil
	}

	cmd, err := o.resolveCommand(done[0], wd)
	if err != nil {
		return nil, pathError(err, done[0])
	}
	r, err := binder.Assist(cmd, wd, done[1:], partial)
	if err != nil {
		return nil, err
	}
	result.Result = r
	result.Command = cmd
	return result, nil
}

// Append returns the text to append to Line. A completed token inside an
// open quote has the quote closed before its trailing space. Append alone
// cannot quote a token that was typed without quotes; front ends apply Edit.
func (r *AssistResult) Append() string {
	suffix := r.Suffix()
	if r.Quote != 0 && suffix == " " {
		suffix = string(r.Quote) + suffix
	}
	return r.Addition() + suffix
}

// Edit returns the completion as a replacement of Line's end: the new line
// is Line[:start] + text. A completed token that would split at whitespace
// is rewritten in quotes from its start, and left open while candidates
// remain. Otherwise start is len(Line) and text is Append.
func (r *AssistResult) Edit() (start int, text string) {
	add := r.Addition()
	if r.Quote == 0 && add != "" {
		closed := r.Suffix() == " "
		if quoted, ok := quoteToken(r.Token+add, closed); ok {
			if closed {
				quoted += " "
			}
			return r.TokenStart, quoted
		}
	}
	return len(r.Line), r.Append()
}

// NewLine returns Line with the completion applied.
func (r *AssistResult) NewLine() string {
	start, text := r.Edit()
	return r.Line[:start] + text
}

// quoteToken quotes token when it would not survive tokenizing as one
// token. An open token gets only its opening quote.
func quoteToken(token string, closed bool) (string, bool) {
	if tokenize.Quote(token) == token {
		return "", false
	}
	if closed {
		return tokenize.Quote(token), true
	}
	switch {
	case !strings.ContainsRune(token, '"'):
		return `"` + token, true
	case !strings.ContainsRune(token, '\''):
		return "'" + token, true
	}
	return "", false
}

func (o *options) fallsBack(path string, wd *hierarchy.Directory) bool {
	return o.fallback != nil && o.fallback != wd && !strings.Contains(path, hierarchy.PathDelimiter)
}

// resolveCommand resolves path from wd, then from the fallback directory
// for a bare name wd does not hold.
func (o *options) resolveCommand(path string, wd *hierarchy.Directory) (*hierarchy.Command, error) {
	cmd, err := hierarchy.ResolveCommand(path, wd)
	if err == nil || !o.fallsBack(path, wd) || !errors.Is(err, hierarchy.ErrNoSuchEntry) {
		return cmd, err
	}
	if fb, fbErr := hierarchy.ResolveCommand(path, o.fallback); fbErr == nil {
		return fb, nil
	}
	return nil, err
}

// completeCommandPath completes the command path at the start of a line.
// Bare names also match the fallback directory's commands; entries of wd
// win over fallback commands of the same name.
func (o *options) completeCommandPath(partial string, wd *hierarchy.Directory) (complete.Result, error) {
	r, err := hierarchy.CompletePath(partial, wd, hierarchy.WantAny)
	if !o.fallsBack(partial, wd) {
		return r, err
	}
	fb, fbErr := hierarchy.CompleteSegment(partial, o.fallback, hierarchy.WantAny)
	if fbErr != nil {
		return r, err
	}
	cmds := complete.NewResult(partial, fb.Candidates.Filter(func(c complete.Candidate) bool {
		return c.Kind == complete.KindCommand
	}))
	switch {
	case cmds.IsEmpty():
		return r, err
	case err != nil:
		return cmds, nil
	}
	return r.Union(cmds), nil
}

func pathError(err error, token string) *binder.ParseError {
	return &binder.ParseError{Err: err, Diagnostic: binder.Diagnostic{Token: token}}
}
