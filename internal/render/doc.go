// SPDX-License-Identifier: MPL-2.0

// Package render turns console results into styled terminal text:
// completion suggestions, parse diagnostics, directory listings and entry
// descriptions. A Renderer is bound to one output so each SSH session gets
// the color profile of its own terminal.
package render
