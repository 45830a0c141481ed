// SPDX-License-Identifier: MPL-2.0

package param

import (
	"strconv"
	"strings"

	"github.com/ykrasik/jaci-sub001/pkg/complete"
	"github.com/ykrasik/jaci-sub001/pkg/trie"
)

var boolValues = trie.Of(struct{}{}, "true", "false")

// Parse converts a raw token into a value of the parameter's kind. Restricted
// string values are returned in their declared spelling. Entry parameters
// return raw unchanged; resolving the path is left to the caller.
func (s *Spec) Parse(raw string) (any, error) {
	switch s.kind {
	case KindBool, KindFlag:
		switch strings.ToLower(raw) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, newError(ErrTypeMismatch, s.name, raw, nil)
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, newError(ErrTypeMismatch, s.name, raw, err)
		}
		return v, nil
	case KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, newError(ErrTypeMismatch, s.name, raw, err)
		}
		return v, nil
	case KindString:
		accepted, restricted := s.AcceptedValues()
		if !restricted {
			return raw, nil
		}
		if v, ok := accepted.Get(raw); ok {
			return v, nil
		}
		return nil, newError(ErrValueNotAccepted, s.name, raw, nil)
	case KindEntry:
		return raw, nil
	default:
		return nil, newError(ErrTypeMismatch, s.name, raw, s.kind.Validate())
	}
}

// CompleteValue completes prefix against the parameter's value space.
// Booleans complete to "true" and "false"; numbers have no candidates but
// fail when prefix cannot start a number; restricted strings complete
// against their accepted values and unrestricted strings are always valid
// with no candidates. Entry parameters are completed by the caller and yield
// an empty result here.
func (s *Spec) CompleteValue(prefix string) (complete.Result, error) {
	empty := complete.NewResult(prefix, trie.Empty[complete.Candidate]())

	switch s.kind {
	case KindBool, KindFlag:
		r := valueResult(prefix, boolValues.SubTrie(prefix).Words())
		if r.IsEmpty() {
			return empty, newError(ErrTypeMismatch, s.name, prefix, nil)
		}
		return r, nil
	case KindInt:
		if prefix == "" || prefix == "-" || prefix == "+" {
			return empty, nil
		}
		if _, err := strconv.Atoi(prefix); err != nil {
			return empty, newError(ErrTypeMismatch, s.name, prefix, err)
		}
		return empty, nil
	case KindDouble:
		if !isNumberPrefix(prefix) {
			return empty, newError(ErrTypeMismatch, s.name, prefix, nil)
		}
		return empty, nil
	case KindString:
		accepted, restricted := s.AcceptedValues()
		if !restricted {
			return empty, nil
		}
		r := valueResult(prefix, accepted.SubTrie(prefix).Values())
		if r.IsEmpty() {
			return empty, newError(ErrValueNotAccepted, s.name, prefix, nil)
		}
		return r, nil
	case KindEntry:
		return empty, nil
	default:
		return empty, newError(ErrTypeMismatch, s.name, prefix, s.kind.Validate())
	}
}

func valueResult(prefix string, words []string) complete.Result {
	candidates := make([]complete.Candidate, len(words))
	for i, w := range words {
		candidates[i] = complete.Candidate{Word: w, Kind: complete.KindValue}
	}
	return complete.FromCandidates(prefix, candidates...)
}

// isNumberPrefix reports whether prefix can be extended into a valid
// floating-point literal.
func isNumberPrefix(prefix string) bool {
	if prefix == "" {
		return true
	}
	for _, tail := range []string{"", "0", "1", "e0"} {
		if _, err := strconv.ParseFloat(prefix+tail, 64); err == nil {
			return true
		}
	}
	return false
}
