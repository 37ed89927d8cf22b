package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is the directory layout of one export archive, derived from
// its base directory.
type Paths struct {
	// BaseDir is the root of the unpacked export archive.
	BaseDir string

	// PhotoDir holds the source photos, normally Photos/post.
	PhotoDir string

	// LegacyPhotoDir is the older archive layout, Photos/bereal. It is
	// consulted when a manifest file is not found under PhotoDir.
	LegacyPhotoDir string

	// SinglesDir receives the renamed single-photo outputs.
	SinglesDir string

	// CombinedDir receives the composite memory images.
	CombinedDir string

	// ManifestPath is the posts.json manifest.
	ManifestPath string

	// HistoryPath is the SQLite run ledger.
	HistoryPath string
}

// DefaultPaths derives the standard layout from an archive base
// directory.
func DefaultPaths(baseDir string) Paths {
	photoDir := filepath.Join(baseDir, "Photos", "post")
	return Paths{
		BaseDir:        baseDir,
		PhotoDir:       photoDir,
		LegacyPhotoDir: filepath.Join(baseDir, "Photos", "bereal"),
		SinglesDir:     filepath.Join(photoDir, "__processed"),
		CombinedDir:    filepath.Join(photoDir, "__combined"),
		ManifestPath:   filepath.Join(baseDir, "posts.json"),
		HistoryPath:    filepath.Join(baseDir, ".bereal-processor", "history.sqlite"),
	}
}

// Check verifies that the archive looks like an export: the base
// directory, the photo directory and the manifest must exist.
func (p Paths) Check() error {
	if info, err := os.Stat(p.BaseDir); err != nil || !info.IsDir() {
		return fmt.Errorf("base directory not found: %s", p.BaseDir)
	}
	if info, err := os.Stat(p.PhotoDir); err != nil || !info.IsDir() {
		return fmt.Errorf("photo directory not found: %s", p.PhotoDir)
	}
	if _, err := os.Stat(p.ManifestPath); err != nil {
		return fmt.Errorf("manifest not found: %s", p.ManifestPath)
	}
	return nil
}

// ResolveSource locates a manifest-referenced file on disk.
//
// Only the file name of the manifest path is used. The photo directory
// is probed first, then the legacy directory; a miss in both returns
// an error naming the file.
func (p Paths) ResolveSource(manifestPath string) (string, error) {
	name := filepath.Base(manifestPath)

	primary := filepath.Join(p.PhotoDir, name)
	if _, err := os.Stat(primary); err == nil {
		return primary, nil
	}

	legacy := filepath.Join(p.LegacyPhotoDir, name)
	if _, err := os.Stat(legacy); err == nil {
		return legacy, nil
	}

	return "", fmt.Errorf("source file %s not found in %s or %s", name, p.PhotoDir, p.LegacyPhotoDir)
}
