// SPDX-License-Identifier: MPL-2.0

// Package repl drives a console session from a line editor.
//
// Tab completes the token under the cursor and lists the candidates when
// the completion is ambiguous. '?' lists the candidates without changing
// the line. Input that is not a terminal is executed line by line by
// RunScript.
package repl
