// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE plumbing shared by configuration and
// command catalogs.
//
// Documents are checked against an embedded schema in three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile (or encode) the user document and unify it with the definition
//  3. Validate and decode into a Go value
//
// # Usage
//
//	//go:embed catalog_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[File](schema, data, "#Catalog",
//	    cueutil.WithFilename("tools.cue"))
//	if err != nil {
//	    return nil, err // includes the CUE path of every problem
//	}
//	return result.Value, nil
//
// Documents in other formats are decoded by their own parser first and then
// checked with DecodeValue.
package cueutil
