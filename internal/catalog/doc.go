// SPDX-License-Identifier: MPL-2.0

// Package catalog loads declarative command catalogs and turns them into
// command hierarchy definitions.
//
// A catalog is a CUE, TOML or YAML document listing commands, the
// directory each lives in, their parameters and a POSIX shell script to
// run. Every format is validated against the same embedded CUE schema.
// Scripts run in-process on the mvdan.cc/sh interpreter.
package catalog
