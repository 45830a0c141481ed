// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the jaci command-line interface: the interactive
// console, single-line execution, shell completion backed by the console's
// assist, the SSH console server and catalog and configuration management.
package cmd
