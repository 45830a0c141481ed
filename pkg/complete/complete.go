// SPDX-License-Identifier: MPL-2.0

// Package complete describes auto-completion candidates and results.
//
// A Result pairs the partial word being completed with a trie of candidates
// that all start with it. A single candidate is completed silently: the
// caller appends Addition and Suffix and no suggestion list is shown. Several
// candidates extend the line only up to their longest common prefix and are
// listed as suggestions.
package complete

import (
	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

const (
	// KindDirectory is a directory name in a path.
	KindDirectory Kind = iota + 1
	// KindCommand is a command name in a path.
	KindCommand
	// KindParamName is a parameter name completed before its '=' delimiter.
	KindParamName
	// KindFlag is a flag parameter name; its presence alone binds it.
	KindFlag
	// KindValue is a parameter value.
	KindValue
	// KindReserved is a reserved path token ("." or "..").
	KindReserved
)

type (
	// Kind classifies a candidate and decides which suffix follows it.
	Kind int

	// Candidate is a single completion suggestion.
	Candidate struct {
		Word        string
		Kind        Kind
		Description string
	}

	// Result is the outcome of completing one partial word.
	Result struct {
		// Prefix is the partial word the candidates complete.
		Prefix string
		// Candidates holds every candidate word, all starting with Prefix.
		Candidates trie.Trie[Candidate]
	}
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindCommand:
		return "command"
	case KindParamName:
		return "parameter"
	case KindFlag:
		return "flag"
	case KindValue:
		return "value"
	case KindReserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// Suffix returns the character appended after a fully completed candidate.
func (k Kind) Suffix() string {
	switch k {
	case KindDirectory:
		return "/"
	case KindParamName:
		return "="
	case KindCommand, KindFlag, KindValue:
		return " "
	default:
		return ""
	}
}

// NewResult creates a Result. candidates must already be narrowed to prefix.
func NewResult(prefix string, candidates trie.Trie[Candidate]) Result {
	return Result{Prefix: prefix, Candidates: candidates}
}

// FromCandidates builds a Result from candidates, keeping those that start
// with prefix. Duplicate words keep the first occurrence.
func FromCandidates(prefix string, candidates ...Candidate) Result {
	b := trie.NewBuilder[Candidate]()
	for _, c := range candidates {
		_ = b.Add(c.Word, c) //nolint:errcheck // first occurrence of a word wins
	}
	return NewResult(prefix, b.Build().SubTrie(prefix))
}

// IsEmpty reports whether no candidate matched.
func (r Result) IsEmpty() bool {
	return r.Candidates.IsEmpty()
}

// Size returns the number of candidates.
func (r Result) Size() int {
	return r.Candidates.Size()
}

// Single returns the only candidate when there is exactly one.
func (r Result) Single() (Candidate, bool) {
	if r.Candidates.Size() != 1 {
		return Candidate{}, false
	}
	for _, c := range r.Candidates.Entries() {
		return c, true
	}
	return Candidate{}, false
}

// Addition returns the text that can be safely appended after Prefix: the
// rest of the word for a single candidate, or the rest of the candidates'
// longest common prefix otherwise. Reserved tokens never extend the line.
func (r Result) Addition() string {
	if r.IsEmpty() || r.hasReserved() {
		return ""
	}
	if c, ok := r.Single(); ok {
		return trimPrefix(c.Word, r.Prefix)
	}
	return trimPrefix(r.Candidates.LongestCommonPrefix(), r.Prefix)
}

// Suffix returns the kind-specific character following a single candidate,
// or "" when the result is not a single completable candidate.
func (r Result) Suffix() string {
	c, ok := r.Single()
	if !ok {
		return ""
	}
	return c.Kind.Suffix()
}

// Append returns Addition followed by Suffix.
func (r Result) Append() string {
	return r.Addition() + r.Suffix()
}

// Suggestions returns the candidates to display. A single completable
// candidate is auto-completed silently and yields no suggestions.
func (r Result) Suggestions() []Candidate {
	if r.IsEmpty() {
		return nil
	}
	if _, ok := r.Single(); ok && !r.hasReserved() {
		return nil
	}
	return r.Candidates.Values()
}

// Union merges the candidates of r and other under r's prefix. When both hold
// the same word, r's candidate wins.
func (r Result) Union(other Result) Result {
	return NewResult(r.Prefix, r.Candidates.Union(other.Candidates))
}

func (r Result) hasReserved() bool {
	for _, c := range r.Candidates.Entries() {
		if c.Kind == KindReserved {
			return true
		}
	}
	return false
}

// trimPrefix removes as many leading runes from word as prefix has. Words
// matched case-insensitively keep their own case for the appended part.
func trimPrefix(word, prefix string) string {
	w := []rune(word)
	n := len([]rune(prefix))
	if n >= len(w) {
		return ""
	}
	return string(w[n:])
}
