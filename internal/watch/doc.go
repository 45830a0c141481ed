// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes to catalog files.
//
// A Watcher monitors the directories holding a set of catalog entries,
// plain paths or doublestar patterns, and invokes a callback once a burst
// of filesystem events has settled. 'jaci serve --watch' uses it to
// rebuild the served hierarchy when a catalog is edited.
package watch
