// SPDX-License-Identifier: MPL-2.0

package param

import (
	"maps"
	"slices"
)

// Args holds bound argument values keyed by parameter name.
type Args map[string]any

// Get returns the value bound to name.
func (a Args) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// String returns the string bound to name, or "" if absent or not a string.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the int bound to name, or 0.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Double returns the float64 bound to name, or 0.
func (a Args) Double(name string) float64 {
	v, _ := a[name].(float64)
	return v
}

// Bool returns the bool bound to name (booleans and flags), or false.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Names returns the bound parameter names in sorted order.
func (a Args) Names() []string {
	return slices.Sorted(maps.Keys(a))
}

// Clone returns a shallow copy of a.
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}
