// SPDX-License-Identifier: MPL-2.0

package trie

import (
	"iter"
	"slices"
	"strings"
	"unicode"
)

type (
	// Trie maps case-insensitive words to values of type V.
	Trie[V any] struct {
		root *node[V]
	}

	// node is never modified after construction. size is computed once from
	// the children and the value, so a derived trie never sees a stale count.
	node[V any] struct {
		label    rune
		word     string
		value    V
		hasValue bool
		children map[rune]*node[V]
		size     int
	}
)

// fold returns the case-insensitive key used to address children.
func fold(r rune) rune {
	return unicode.ToLower(r)
}

// newNode creates an immutable node and computes its word count.
// A nil result means the node would carry nothing and must be pruned.
func newNode[V any](label rune, word string, value V, hasValue bool, children map[rune]*node[V]) *node[V] {
	if !hasValue && len(children) == 0 {
		return nil
	}
	size := 0
	if hasValue {
		size = 1
	}
	for _, child := range children {
		size += child.size
	}
	if !hasValue {
		word = ""
	}
	return &node[V]{
		label:    label,
		word:     word,
		value:    value,
		hasValue: hasValue,
		children: children,
		size:     size,
	}
}

// Empty returns the empty trie.
func Empty[V any]() Trie[V] {
	return Trie[V]{}
}

// Size returns the number of words in the trie.
func (t Trie[V]) Size() int {
	if t.root == nil {
		return 0
	}
	return t.root.size
}

// IsEmpty reports whether the trie holds no words.
func (t Trie[V]) IsEmpty() bool {
	return t.root == nil
}

// Get returns the value stored for word, matching case-insensitively.
func (t Trie[V]) Get(word string) (V, bool) {
	var zero V
	if word == "" {
		return zero, false
	}
	n := t.root
	for _, r := range word {
		if n == nil {
			return zero, false
		}
		n = n.children[fold(r)]
	}
	if n == nil || !n.hasValue {
		return zero, false
	}
	return n.value, true
}

// Contains reports whether word is present in the trie.
func (t Trie[V]) Contains(word string) bool {
	_, ok := t.Get(word)
	return ok
}

// SubTrie returns a trie holding only the words that start with prefix.
//
// Nodes along the prefix path are reused when they do not branch; a new node
// is created only where the source branches off the path or carries a word.
// The empty prefix returns t unchanged, and a prefix that matches nothing
// returns the empty trie.
func (t Trie[V]) SubTrie(prefix string) Trie[V] {
	if prefix == "" || t.root == nil {
		return t
	}
	return Trie[V]{root: subTrie(t.root, []rune(prefix))}
}

func subTrie[V any](n *node[V], prefix []rune) *node[V] {
	if len(prefix) == 0 {
		return n
	}
	child, ok := n.children[fold(prefix[0])]
	if !ok {
		return nil
	}
	sub := subTrie(child, prefix[1:])
	if sub == nil {
		return nil
	}
	if sub == child && len(n.children) == 1 && !n.hasValue {
		return n
	}
	var zero V
	return newNode(n.label, "", zero, false, map[rune]*node[V]{fold(prefix[0]): sub})
}

// LongestCommonPrefix returns the longest string shared by every word in the
// trie. It walks down from the root while the current node has exactly one
// child and is not itself a word.
func (t Trie[V]) LongestCommonPrefix() string {
	var sb strings.Builder
	n := t.root
	for n != nil && len(n.children) == 1 && !n.hasValue {
		for _, child := range n.children {
			sb.WriteRune(child.label)
			n = child
		}
	}
	return sb.String()
}

// Entries yields every (word, value) pair, each word spelled as it was added.
// Siblings are visited in ascending order of their case-folded character, so
// the order is stable for a given trie.
func (t Trie[V]) Entries() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if t.root == nil {
			return
		}
		walk(t.root, yield)
	}
}

func walk[V any](n *node[V], yield func(string, V) bool) bool {
	if n.hasValue && !yield(n.word, n.value) {
		return false
	}
	for _, key := range sortedKeys(n.children) {
		if !walk(n.children[key], yield) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](children map[rune]*node[V]) []rune {
	keys := make([]rune, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Words returns every word in Entries order.
func (t Trie[V]) Words() []string {
	words := make([]string, 0, t.Size())
	for word := range t.Entries() {
		words = append(words, word)
	}
	return words
}

// Values returns every value in Entries order.
func (t Trie[V]) Values() []V {
	values := make([]V, 0, t.Size())
	for _, value := range t.Entries() {
		values = append(values, value)
	}
	return values
}

// Filter returns a trie holding only the words whose value satisfies keep.
// It behaves like MapValues with an identity-or-absent function, except that
// sub-trees left untouched by keep are shared with t instead of copied.
func (t Trie[V]) Filter(keep func(V) bool) Trie[V] {
	if t.root == nil {
		return t
	}
	return Trie[V]{root: filterNode(t.root, keep)}
}

func filterNode[V any](n *node[V], keep func(V) bool) *node[V] {
	hasValue := n.hasValue && keep(n.value)
	changed := hasValue != n.hasValue
	children := make(map[rune]*node[V], len(n.children))
	for key, child := range n.children {
		filtered := filterNode(child, keep)
		if filtered != child {
			changed = true
		}
		if filtered != nil {
			children[key] = filtered
		}
	}
	if !changed {
		return n
	}
	return newNode(n.label, n.word, n.value, hasValue, children)
}

// Union merges t with other. When both tries hold the same word, the value
// and spelling from t (the left operand) are kept; the character labels along
// shared paths also come from t.
func (t Trie[V]) Union(other Trie[V]) Trie[V] {
	return Trie[V]{root: union(t.root, other.root)}
}

func union[V any](left, right *node[V]) *node[V] {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	word, value, hasValue := left.word, left.value, left.hasValue
	if !hasValue {
		word, value, hasValue = right.word, right.value, right.hasValue
	}
	children := make(map[rune]*node[V], len(left.children)+len(right.children))
	for key, child := range left.children {
		children[key] = union(child, right.children[key])
	}
	for key, child := range right.children {
		if _, ok := children[key]; !ok {
			children[key] = child
		}
	}
	return newNode(left.label, word, value, hasValue, children)
}

// MapValues applies f to every value of t. When f reports no value for a word,
// that word is dropped; a node left with neither a value nor descendants is
// pruned entirely.
func MapValues[V, W any](t Trie[V], f func(V) (W, bool)) Trie[W] {
	if t.root == nil {
		return Trie[W]{}
	}
	return Trie[W]{root: mapNode(t.root, f)}
}

func mapNode[V, W any](n *node[V], f func(V) (W, bool)) *node[W] {
	var children map[rune]*node[W]
	for key, child := range n.children {
		mapped := mapNode(child, f)
		if mapped == nil {
			continue
		}
		if children == nil {
			children = make(map[rune]*node[W], len(n.children))
		}
		children[key] = mapped
	}
	var (
		value    W
		hasValue bool
	)
	if n.hasValue {
		value, hasValue = f(n.value)
	}
	return newNode(n.label, n.word, value, hasValue, children)
}
