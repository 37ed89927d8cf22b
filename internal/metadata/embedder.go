package metadata

import (
	"fmt"
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// Properties are the capture facts embedded into an output file.
type Properties struct {
	// TakenAt is the capture timestamp, always embedded.
	TakenAt time.Time

	// Location is the capture position, skipped when nil.
	Location *model.Location

	// Caption is the user caption, skipped when empty.
	Caption string
}

// Embedder writes the EXIF and IPTC metadata groups into JPEG files.
//
// The zero value is ready to use.
type Embedder struct{}

// Embed writes both metadata groups into the file at path, EXIF
// first, then IPTC.
//
// The two passes are independent: a failure in the EXIF pass does not
// prevent the IPTC pass from running, and either failure is reported.
// The file is valid JPEG after every outcome.
func (e *Embedder) Embed(path string, p Properties) error {
	var exifErr, iptcErr error
	if err := writeEXIF(path, p); err != nil {
		exifErr = fmt.Errorf("exif: %w", err)
	}
	if err := writeIPTC(path, p); err != nil {
		iptcErr = fmt.Errorf("iptc: %w", err)
	}

	switch {
	case exifErr != nil && iptcErr != nil:
		return fmt.Errorf("%v; %w", exifErr, iptcErr)
	case exifErr != nil:
		return exifErr
	default:
		return iptcErr
	}
}

// PropertiesFor builds the embeddable properties of a processed
// single image.
func PropertiesFor(img *model.ProcessedImage) Properties {
	return Properties{TakenAt: img.TakenAt, Location: img.Location, Caption: img.Caption}
}

// PropertiesForCombined builds the embeddable properties of a
// composite image.
func PropertiesForCombined(img *model.CombinedImage) Properties {
	return Properties{TakenAt: img.TakenAt, Location: img.Location, Caption: img.Caption}
}
