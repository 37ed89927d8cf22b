package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/fsutil"
	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// nameTimeLayout is the timestamp prefix of every output file name.
// Colons are not portable in file names, so the time part uses dashes.
const nameTimeLayout = "2006-01-02T15-04-05"

// combinedRole is the role tag used for composite image names.
const combinedRole = "combined"

// outputName builds the canonical file name for an output:
//
//	{timestamp}_{role}.{ext}
//	{timestamp}_{role}_{stem}.{ext}   when the original stem is kept
//
// stem is the source file's name without extension, empty when the
// keep-original-filename option is off.
func outputName(takenAt time.Time, role, stem, ext string) string {
	name := takenAt.Format(nameTimeLayout) + "_" + role
	if stem != "" {
		name += "_" + stem
	}
	return name + ext
}

// outputPath places an output name into dir and resolves collisions
// with the live directory contents.
func outputPath(dir string, takenAt time.Time, role, stem, ext string) string {
	return fsutil.UniquePath(filepath.Join(dir, outputName(takenAt, role, stem, ext)))
}

// sourceStem extracts the stem used when the original file name is
// kept.
func sourceStem(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// roleTag renders a model role for use in a file name.
func roleTag(role model.Role) string {
	return string(role)
}

// describeOutput is the log form of a produced file.
func describeOutput(path string) string {
	return fmt.Sprintf("%s (%s)", filepath.Base(path), filepath.Dir(path))
}
