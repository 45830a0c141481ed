// SPDX-License-Identifier: MPL-2.0

// Package tui provides interactive prompts over the command hierarchy.
//
// PickCommand lets the user choose a command from a filterable list and
// PromptLine asks for its parameters, producing a command line the console
// can run. Both are built on charmbracelet/huh forms and fall back to
// line-based prompts in accessible mode.
package tui
