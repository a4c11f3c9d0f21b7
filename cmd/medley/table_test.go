package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"ID", "Title", "State"},
		[][]string{
			{"1", "OK Computer", "verified"},
			{"2", "Now 80"},
		},
		0,
	)
	for _, want := range []string{"ID", "OK Computer", "Now 80", "verified"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected bordered table, got %d lines:\n%s", len(lines), out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"1"}}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}
