// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{name: "operation only", err: &ActionableError{Operation: "load catalog"}, want: "failed to load catalog"},
		{name: "with resource", err: &ActionableError{Operation: "load catalog", Resource: "tools.cue"}, want: "failed to load catalog: tools.cue"},
		{
			name: "with cause",
			err:  &ActionableError{Operation: "load catalog", Resource: "tools.cue", Cause: cause},
			want: "failed to load catalog: tools.cue: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := WrapWithContext(fmt.Errorf("inner: %w", sentinel), "start ssh server", ":2222")
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() should find the wrapped sentinel")
	}
	if WrapWithOperation(nil, "x") != nil || WrapWithContext(nil, "x", "y") != nil {
		t.Error("wrapping a nil error should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load configuration").
		WithResource("config.cue").
		WithSuggestion("Run 'jaci config init'").
		WithSuggestion("Check JACI_ variables").
		Wrap(fmt.Errorf("decode: %w", errors.New("bad value"))).
		Build()

	plain := err.Format(false)
	for _, want := range []string{"failed to load configuration: config.cue", "  • Run 'jaci config init'", "  • Check JACI_ variables"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) = %q, missing %q", plain, want)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not list the error chain")
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. decode: bad value", "2. bad value"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) = %q, missing %q", verbose, want)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should return nil")
	}

	ctx := NewErrorContext().WithOperation("serve").WithSuggestion("a")
	first := ctx.Build()
	ctx.WithSuggestion("b")
	if len(first.Suggestions) != 1 {
		t.Errorf("a built error changed after the builder was reused: %v", first.Suggestions)
	}
}

func TestFor(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("outer: %w", NewErrorContext().
		WithOperation("load catalog").
		WithIssue(CatalogParseErrorId).
		BuildError())
	if got := For(err); got == nil || got.Id() != CatalogParseErrorId {
		t.Errorf("For() = %v, want the catalog parse issue", got)
	}
	if For(errors.New("plain")) != nil {
		t.Error("For() of an unlinked error should be nil")
	}
}

func TestValuesAreCompleteAndOrdered(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(PermissionDeniedId) {
		t.Fatalf("Values() has %d issues, want %d", len(values), PermissionDeniedId)
	}
	for i, is := range values {
		if is.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, is.Id(), i+1)
		}
		if strings.TrimSpace(string(is.MarkdownMsg())) == "" {
			t.Errorf("issue %d has no content", is.Id())
		}
		if Get(is.Id()) != is {
			t.Errorf("Get(%d) does not return the catalog entry", is.Id())
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		out, err := is.Render("notty")
		if err != nil {
			t.Errorf("issue %d: Render() error = %v", is.Id(), err)
			continue
		}
		if out == "" {
			t.Errorf("issue %d rendered empty", is.Id())
		}
	}

	out, err := Get(CatalogParseErrorId).Render("notty")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "catalogs.md") {
		t.Errorf("Render() should list the doc links, got:\n%s", out)
	}
}

func TestLinksAreCopies(t *testing.T) {
	t.Parallel()

	is := Get(SSHServerStartFailedId)
	links := is.ExtLinks()
	links[0] = "changed"
	if is.ExtLinks()[0] == "changed" {
		t.Error("ExtLinks() exposed the internal slice")
	}
}
