package model

import "time"

// Role identifies which camera a photo of a moment came from.
type Role string

const (
	// RolePrimary is the rear-camera photo of a moment.
	RolePrimary Role = "primary"

	// RoleSecondary is the front-camera (selfie) photo of a moment.
	RoleSecondary Role = "secondary"
)

// Location is a geographic position in signed decimal degrees.
type Location struct {
	// Latitude in decimal degrees, positive north.
	Latitude float64

	// Longitude in decimal degrees, positive east.
	Longitude float64
}

// Moment is one accepted manifest entry: a primary/secondary photo
// pair captured at the same time.
//
// A Moment is immutable once built from the manifest. PrimaryPath and
// SecondaryPath carry the paths exactly as the manifest records them;
// the pipeline resolves them against the photo directories (with the
// legacy directory fallback) when it opens the files.
type Moment struct {
	// PrimaryPath is the manifest path of the primary photo.
	PrimaryPath string

	// SecondaryPath is the manifest path of the secondary photo.
	SecondaryPath string

	// TakenAt is the capture timestamp parsed from the manifest.
	TakenAt time.Time

	// Location is the capture position, nil when the manifest entry
	// carries none.
	Location *Location

	// Caption is the user caption, empty when absent.
	Caption string
}

// SourcePath returns the source path for the given role.
func (m *Moment) SourcePath(role Role) string {
	if role == RoleSecondary {
		return m.SecondaryPath
	}
	return m.PrimaryPath
}
