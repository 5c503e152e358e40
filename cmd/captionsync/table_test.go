package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsFooterCase(t *testing.T) {
	out := renderTable(tableSpec{
		Headers: []string{"Story", "Status"},
		Rows:    [][]string{{"alpha", "completed"}},
		Footer:  []string{"2 stories", "3ms"},
	})
	for _, want := range []string{"2 stories", "3ms", "alpha"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	if strings.Contains(out, "3MS") {
		t.Fatalf("footer was upper-cased:\n%s", out)
	}
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(tableSpec{}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
