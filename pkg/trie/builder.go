// SPDX-License-Identifier: MPL-2.0

package trie

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEmptyKey is returned when a builder is asked to store the empty word.
	ErrEmptyKey = errors.New("empty trie key")
	// ErrDuplicateKey is the sentinel error wrapped by DuplicateKeyError.
	ErrDuplicateKey = errors.New("duplicate trie key")
)

type (
	// DuplicateKeyError is returned when a word is added twice (case-insensitively).
	// It wraps ErrDuplicateKey for errors.Is() compatibility.
	DuplicateKeyError struct {
		Word     string
		Existing string
	}

	// Builder accumulates words and produces an immutable Trie.
	// A Builder is not safe for concurrent use.
	Builder[V any] struct {
		root *buildNode[V]
	}

	buildNode[V any] struct {
		label    rune
		value    V
		word     string
		hasValue bool
		children map[rune]*buildNode[V]
	}
)

// Error implements the error interface for DuplicateKeyError.
func (e *DuplicateKeyError) Error() string {
	if e.Existing != "" && e.Existing != e.Word {
		return fmt.Sprintf("duplicate key %q (conflicts with %q)", e.Word, e.Existing)
	}
	return fmt.Sprintf("duplicate key %q", e.Word)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

// NewBuilder creates an empty Builder.
func NewBuilder[V any]() *Builder[V] {
	return &Builder[V]{root: &buildNode[V]{}}
}

// Add stores value under word. The empty word and words already present
// (compared case-insensitively) are rejected.
func (b *Builder[V]) Add(word string, value V) error {
	if word == "" {
		return ErrEmptyKey
	}
	n := b.root
	for _, r := range word {
		key := fold(r)
		child, ok := n.children[key]
		if !ok {
			if n.children == nil {
				n.children = make(map[rune]*buildNode[V])
			}
			child = &buildNode[V]{label: r}
			n.children[key] = child
		}
		n = child
	}
	if n.hasValue {
		return &DuplicateKeyError{Word: word, Existing: n.word}
	}
	n.value = value
	n.word = word
	n.hasValue = true
	return nil
}

// Build returns the immutable Trie holding every added word.
// The builder may keep being used; later additions do not affect the result.
func (b *Builder[V]) Build() Trie[V] {
	return Trie[V]{root: freeze(b.root)}
}

func freeze[V any](n *buildNode[V]) *node[V] {
	var children map[rune]*node[V]
	for key, child := range n.children {
		frozen := freeze(child)
		if frozen == nil {
			continue
		}
		if children == nil {
			children = make(map[rune]*node[V], len(n.children))
		}
		children[key] = frozen
	}
	return newNode(n.label, n.word, n.value, n.hasValue, children)
}

// FromMap builds a Trie from a map. All invalid keys are reported together.
func FromMap[V any](words map[string]V) (Trie[V], error) {
	b := NewBuilder[V]()
	var errs []error
	for _, word := range sortedWords(words) {
		if err := b.Add(word, words[word]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Trie[V]{}, errors.Join(errs...)
	}
	return b.Build(), nil
}

// Of builds a Trie from words that all map to the same value. Duplicate
// words are ignored; empty words are skipped.
func Of[V any](value V, words ...string) Trie[V] {
	b := NewBuilder[V]()
	for _, word := range words {
		_ = b.Add(word, value) //nolint:errcheck // duplicates and empty words are skipped on purpose
	}
	return b.Build()
}

// sortedWords makes FromMap deterministic about which spelling of a
// case-insensitive duplicate is reported as the existing one.
func sortedWords[V any](words map[string]V) []string {
	keys := make([]string, 0, len(words))
	for word := range words {
		keys = append(keys, word)
	}
	slices.Sort(keys)
	return keys
}
