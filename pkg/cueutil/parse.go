// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is the outcome of a successful ParseAndDecode or DecodeValue.
type ParseResult[T any] struct {
	// Value is the decoded document.
	Value *T
	// Unified is the document unified with its schema definition.
	Unified cue.Value
}

// ParseAndDecode compiles data, unifies it with the definition at
// schemaPath (e.g. "#Catalog") in schema, validates the result and decodes
// it into T. Errors carry the CUE path of each problem.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)
	filename := o.name()

	if err := CheckFileSize(data, o.maxFileSize, filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}
	user := ctx.CompileBytes(data, cue.Filename(filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), filename)
	}
	return unifyAndDecode[T](def, user, o)
}

// DecodeValue checks an already-decoded document (such as the result of a
// TOML or YAML parser) against the definition at schemaPath and decodes the
// unified value into T.
func DecodeValue[T any](schema []byte, schemaPath string, doc any, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, schemaPath)
	if err != nil {
		return nil, err
	}
	user := ctx.Encode(doc)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.name())
	}
	return unifyAndDecode[T](def, user, o)
}

// Format renders v as CUE source.
func Format(v cue.Value) (string, error) {
	out := fmt.Sprint(v)
	if v.Err() != nil {
		return "", fmt.Errorf("failed to format CUE value: %w", v.Err())
	}
	return out, nil
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func lookupDefinition(ctx *cue.Context, schema []byte, schemaPath string) (cue.Value, error) {
	compiled := ctx.CompileBytes(schema)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(schemaPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, def.Err())
	}
	return def, nil
}

func unifyAndDecode[T any](def, user cue.Value, o options) (*ParseResult[T], error) {
	unified := def.Unify(user)

	var vopts []cue.Option
	if o.concrete {
		vopts = append(vopts, cue.Concrete(true))
	}
	if err := unified.Validate(vopts...); err != nil {
		return nil, FormatError(err, o.name())
	}

	var value T
	if err := unified.Decode(&value); err != nil {
		return nil, FormatError(err, o.name())
	}
	return &ParseResult[T]{Value: &value, Unified: unified}, nil
}
