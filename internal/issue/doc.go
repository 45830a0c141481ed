// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the jaci CLI: errors that
// say what failed, on which resource, and what to try next, plus a catalog
// of Markdown help pages for common problems.
package issue
