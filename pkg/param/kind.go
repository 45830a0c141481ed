// SPDX-License-Identifier: MPL-2.0

package param

import "fmt"

const (
	// KindBool is a boolean value ("true" or "false").
	KindBool Kind = iota + 1
	// KindInt is a base-10 integer.
	KindInt
	// KindDouble is a floating-point number.
	KindDouble
	// KindString is free text, optionally restricted to an accepted set.
	KindString
	// KindFlag is bound to true by its name alone and to false when absent.
	KindFlag
	// KindEntry references a directory or command by path.
	KindEntry
)

// Kind is the closed set of parameter types. Kind-specific behavior is
// always selected with an exhaustive switch.
type Kind int

// String returns the name used in usage strings.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindFlag:
		return "flag"
	case KindEntry:
		return "entry"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Validate returns an error if k is not one of the defined kinds.
func (k Kind) Validate() error {
	switch k {
	case KindBool, KindInt, KindDouble, KindString, KindFlag, KindEntry:
		return nil
	default:
		return fmt.Errorf("unknown kind %d", int(k))
	}
}

// ParseKind maps a kind name (as written in catalogs) to a Kind.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer":
		return KindInt, nil
	case "double", "float":
		return KindDouble, nil
	case "string", "":
		return KindString, nil
	case "flag":
		return KindFlag, nil
	case "entry", "path":
		return KindEntry, nil
	default:
		return 0, fmt.Errorf("unknown parameter type %q (valid: bool, int, double, string, flag, entry)", name)
	}
}
