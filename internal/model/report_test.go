package model

import (
	"strings"
	"testing"
)

func TestReportSummary(t *testing.T) {
	r := Report{
		InputFiles:    42,
		Processed:     40,
		Converted:     38,
		Skipped:       2,
		SkippedByDate: 5,
		EntryErrors:   1,
		Combined:      19,
	}
	summary := r.Summary()
	lines := strings.Split(summary, "\n")

	if !strings.Contains(lines[0], "Processing Summary") {
		t.Errorf("title line = %q", lines[0])
	}
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8", len(lines))
	}

	// Every counter line is padded to the same width with the value
	// right-aligned.
	for _, line := range lines[1:] {
		if len(line) != summaryLabelWidth+summaryValueWidth {
			t.Errorf("line %q has width %d, want %d", line, len(line), summaryLabelWidth+summaryValueWidth)
		}
	}
	if !strings.Contains(summary, "Input files") {
		t.Error("missing input files line")
	}
	if lines[1][len(lines[1])-2:] != "42" {
		t.Errorf("input files value not right-aligned: %q", lines[1])
	}
}

func TestMomentSourcePath(t *testing.T) {
	m := Moment{PrimaryPath: "/p/a.webp", SecondaryPath: "/p/b.webp"}

	if got := m.SourcePath(RolePrimary); got != "/p/a.webp" {
		t.Errorf("SourcePath(primary) = %q", got)
	}
	if got := m.SourcePath(RoleSecondary); got != "/p/b.webp" {
		t.Errorf("SourcePath(secondary) = %q", got)
	}
}
