package model

import "time"

// ProcessedImage is one renamed, format-normalized output file for a
// single role of a moment.
//
// It is created once per role per accepted entry. OutputPath is the
// only mutable field: the lifecycle step may delete the file after a
// composite has been built from it.
type ProcessedImage struct {
	// OutputPath is the file's current location in the singles
	// output directory.
	OutputPath string

	// Role records which camera the file came from.
	Role Role

	// TakenAt is the capture timestamp carried over from the moment.
	TakenAt time.Time

	// Location is the capture position, nil when absent.
	Location *Location

	// Caption is the user caption, empty when absent.
	Caption string
}

// CombinedImage is the composite "memory" image built from exactly one
// primary and one secondary ProcessedImage of the same moment.
//
// Combined images are never deleted by the pipeline.
type CombinedImage struct {
	// OutputPath is the composite's location in the combined output
	// directory.
	OutputPath string

	// TakenAt, Location and Caption mirror the source moment; they
	// are embedded into the composite's metadata.
	TakenAt  time.Time
	Location *Location
	Caption  string

	// SourcePrimary and SourceSecondary are the single-image outputs
	// the composite was built from.
	SourcePrimary   string
	SourceSecondary string
}
