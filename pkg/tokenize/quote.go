// SPDX-License-Identifier: MPL-2.0

package tokenize

import "strings"

// Quote returns s in a form Split reads back as the single token s. Tokens
// without whitespace or quotes are returned unchanged.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\r\"'") {
		return s
	}
	if !strings.ContainsRune(s, '"') {
		return `"` + s + `"`
	}
	if !strings.ContainsRune(s, '\'') {
		return "'" + s + "'"
	}

	// Both quote characters: runs of double quotes go inside single quotes,
	// everything else inside double quotes. Touching runs join into one token.
	var sb strings.Builder
	for s != "" {
		i := strings.IndexByte(s, '"')
		if i < 0 {
			i = len(s)
		}
		if i > 0 {
			sb.WriteString(`"` + s[:i] + `"`)
			s = s[i:]
			continue
		}
		j := len(s) - len(strings.TrimLeft(s, `"`))
		sb.WriteString("'" + s[:j] + "'")
		s = s[j:]
	}
	return sb.String()
}

// Join quotes tokens and joins them into a line that Split turns back into
// the same tokens.
func Join(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = Quote(t)
	}
	return strings.Join(quoted, " ")
}
