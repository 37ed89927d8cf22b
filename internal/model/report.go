package model

import (
	"fmt"
	"strings"
)

// Report accumulates the counters of one processing run.
//
// The pipeline mutates a single Report while it runs and returns it
// when the batch completes; nothing else writes to it.
type Report struct {
	// InputFiles is the number of source-format files discovered in
	// the photo directories before processing.
	InputFiles int

	// Processed counts output files successfully written during the
	// single-image phase (up to two per accepted entry).
	Processed int

	// Converted counts files that actually went through a format
	// conversion (pass-through copies are not counted).
	Converted int

	// Skipped counts roles dropped because of a conversion or read
	// failure.
	Skipped int

	// SkippedByDate counts entries excluded by the since/until
	// date bounds.
	SkippedByDate int

	// EntryErrors counts manifest entries discarded as malformed.
	EntryErrors int

	// Combined counts composite images written.
	Combined int
}

// Summary layout constants, shared with the TUI's completion view.
const (
	summaryLabelWidth = 26
	summaryValueWidth = 8
)

// Summary renders the report as the aligned block printed at the end
// of a run.
//
// Example:
//
//	--------- Processing Summary ---------
//	Input files                      42
//	Total files processed            40
//	...
func (r *Report) Summary() string {
	const title = "Processing Summary"
	width := summaryLabelWidth + summaryValueWidth
	dashes := width - len(title) - 2
	if dashes < 0 {
		dashes = 0
	}
	left := dashes / 2
	right := dashes - left

	lines := []string{
		fmt.Sprintf("%s %s %s", strings.Repeat("-", left), title, strings.Repeat("-", right)),
		summaryLine("Input files", r.InputFiles),
		summaryLine("Total files processed", r.Processed),
		summaryLine("Files converted", r.Converted),
		summaryLine("Files skipped", r.Skipped),
		summaryLine("Entries skipped by date", r.SkippedByDate),
		summaryLine("Entries with errors", r.EntryErrors),
		summaryLine("Files combined", r.Combined),
	}
	return strings.Join(lines, "\n")
}

func summaryLine(label string, value int) string {
	return fmt.Sprintf("%-*s%*d", summaryLabelWidth, label, summaryValueWidth, value)
}
