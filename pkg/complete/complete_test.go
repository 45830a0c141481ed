// SPDX-License-Identifier: MPL-2.0

package complete

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func words(cs []Candidate) []string {
	if cs == nil {
		return nil
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Word
	}
	return out
}

func TestResult(t *testing.T) {
	t.Parallel()

	dir := func(name string) Candidate { return Candidate{Word: name, Kind: KindDirectory} }

	tests := []struct {
		name            string
		result          Result
		wantAddition    string
		wantSuffix      string
		wantSuggestions []string
	}{
		{
			name:         "single candidate completes silently",
			result:       FromCandidates("di", dir("dirStart")),
			wantAddition: "rStart",
			wantSuffix:   "/",
		},
		{
			name:            "several candidates extend to the common prefix",
			result:          FromCandidates("", dir("d"), dir("dirStart")),
			wantAddition:    "d",
			wantSuggestions: []string{"d", "dirStart"},
		},
		{
			name:            "common prefix beyond the typed prefix",
			result:          FromCandidates("c", Candidate{Word: "catalog", Kind: KindCommand}, Candidate{Word: "cats", Kind: KindCommand}),
			wantAddition:    "at",
			wantSuggestions: []string{"catalog", "cats"},
		},
		{
			name:         "parameter name gets the delimiter",
			result:       FromCandidates("na", Candidate{Word: "name", Kind: KindParamName}),
			wantAddition: "me",
			wantSuffix:   "=",
		},
		{
			name:         "value gets a space",
			result:       FromCandidates("tr", Candidate{Word: "true", Kind: KindValue}),
			wantAddition: "ue",
			wantSuffix:   " ",
		},
		{
			name:         "case-insensitive match keeps the typed part",
			result:       FromCandidates("DI", dir("dirStart")),
			wantAddition: "rStart",
			wantSuffix:   "/",
		},
		{
			name:            "reserved tokens never extend the line",
			result:          FromCandidates("", Candidate{Word: ".", Kind: KindReserved}, Candidate{Word: "..", Kind: KindReserved}),
			wantSuggestions: []string{".", ".."},
		},
		{
			name:   "no candidates",
			result: FromCandidates("zz", dir("dirStart")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.result.Addition(); got != tt.wantAddition {
				t.Errorf("Addition() = %q, want %q", got, tt.wantAddition)
			}
			if got := tt.result.Suffix(); got != tt.wantSuffix {
				t.Errorf("Suffix() = %q, want %q", got, tt.wantSuffix)
			}
			if got := tt.result.Append(); got != tt.wantAddition+tt.wantSuffix {
				t.Errorf("Append() = %q, want %q", got, tt.wantAddition+tt.wantSuffix)
			}
			if diff := cmp.Diff(tt.wantSuggestions, words(tt.result.Suggestions())); diff != "" {
				t.Errorf("Suggestions() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResultUnionLeftWins(t *testing.T) {
	t.Parallel()

	names := FromCandidates("t", Candidate{Word: "true", Kind: KindParamName}, Candidate{Word: "type", Kind: KindParamName})
	values := FromCandidates("t", Candidate{Word: "true", Kind: KindValue})

	u := names.Union(values)
	if u.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", u.Size())
	}
	c, ok := u.Candidates.Get("true")
	if !ok || c.Kind != KindParamName {
		t.Errorf("Get(true) = %+v, want the left operand's parameter candidate", c)
	}
}

func TestKindSuffix(t *testing.T) {
	t.Parallel()

	want := map[Kind]string{
		KindDirectory: "/",
		KindCommand:   " ",
		KindParamName: "=",
		KindFlag:      " ",
		KindValue:     " ",
		KindReserved:  "",
		Kind(0):       "",
	}
	for kind, suffix := range want {
		if got := kind.Suffix(); got != suffix {
			t.Errorf("%s.Suffix() = %q, want %q", kind, got, suffix)
		}
	}
}
