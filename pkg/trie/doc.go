// SPDX-License-Identifier: MPL-2.0

// Package trie provides an immutable, case-insensitive prefix tree used for
// name lookup and auto-completion.
//
// A Trie is built once through a Builder and never mutated afterwards. Every
// derived trie (SubTrie, Filter, MapValues, Union) is a new value that shares
// untouched nodes with its source, so deriving is proportional to the nodes
// that change rather than to the size of the whole tree. Tries are safe for
// concurrent read-only use.
//
// Keys fold case per character: "Dir" and "dir" address the same node.
// Entries reports every word spelled as it was added; LongestCommonPrefix
// reports the character labels of the path, which keep the case of the first
// word that created each node.
//
// The zero value is an empty trie.
package trie
