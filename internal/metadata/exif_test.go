package metadata

import (
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// writeTestJPEG encodes a small plain JPEG without any metadata.
func writeTestJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWriteEXIFReadBack(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")

	takenAt := time.Date(2023, 5, 14, 9, 21, 3, 0, time.UTC)
	props := Properties{
		TakenAt:  takenAt,
		Location: &model.Location{Latitude: 48.137428, Longitude: -11.575512},
		Caption:  "lunch break",
	}
	if err := writeEXIF(path, props); err != nil {
		t.Fatalf("writeEXIF() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		t.Fatalf("exif.Decode() error = %v", err)
	}

	gotTime, err := x.DateTime()
	if err != nil {
		t.Fatalf("DateTime() error = %v", err)
	}
	// goexif applies a local timezone; compare wall-clock fields only.
	if got, want := gotTime.Format(exifTimeLayout), takenAt.Format(exifTimeLayout); got != want {
		t.Errorf("DateTime = %v, want %v", got, want)
	}

	lat, long, err := x.LatLong()
	if err != nil {
		t.Fatalf("LatLong() error = %v", err)
	}
	// The seconds component is stored in hundredths, so round-tripping
	// loses a little under 1e-5 degrees.
	if math.Abs(lat-48.137428) > 1e-4 {
		t.Errorf("latitude = %v, want ~48.137428", lat)
	}
	if math.Abs(long-(-11.575512)) > 1e-4 {
		t.Errorf("longitude = %v, want ~-11.575512", long)
	}

	tag, err := x.Get(exif.ImageDescription)
	if err != nil {
		t.Fatalf("Get(ImageDescription) error = %v", err)
	}
	desc, err := tag.StringVal()
	if err != nil {
		t.Fatal(err)
	}
	if desc != "lunch break" {
		t.Errorf("ImageDescription = %q, want %q", desc, "lunch break")
	}
}

func TestWriteEXIFWithoutOptionalFields(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")

	takenAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := writeEXIF(path, Properties{TakenAt: takenAt}); err != nil {
		t.Fatalf("writeEXIF() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		t.Fatalf("exif.Decode() error = %v", err)
	}
	gotTime, err := x.DateTime()
	if err != nil {
		t.Fatalf("DateTime() error = %v", err)
	}
	if got, want := gotTime.Format(exifTimeLayout), takenAt.Format(exifTimeLayout); got != want {
		t.Errorf("DateTime = %v, want %v", got, want)
	}
	if _, _, err := x.LatLong(); err == nil {
		t.Error("LatLong() should fail when no location was embedded")
	}
}

func TestWriteEXIFPreservesDecodability(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")
	if err := writeEXIF(path, Properties{TakenAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("file no longer decodes as JPEG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("image dimensions changed: %v", img.Bounds())
	}
}

func TestDMSRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		pos   string
		neg   string
		ref   string
	}{
		{"munich latitude", 48.137428, "N", "S", "N"},
		{"southern latitude", -33.865143, "N", "S", "S"},
		{"eastern longitude", 151.209900, "E", "W", "E"},
		{"western longitude", -122.419418, "E", "W", "W"},
		{"equator", 0, "N", "S", "N"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, rats := toDMS(tt.value, tt.pos, tt.neg)
			if ref != tt.ref {
				t.Errorf("ref = %q, want %q", ref, tt.ref)
			}
			got := fromDMS(ref, rats)
			if math.Abs(got-tt.value) > 1e-4 {
				t.Errorf("round trip = %v, want %v", got, tt.value)
			}
		})
	}
}

func TestToDMSComponents(t *testing.T) {
	// 48.5 degrees is exactly 48 deg 30 min 0 sec.
	ref, rats := toDMS(48.5, "N", "S")
	if ref != "N" {
		t.Errorf("ref = %q, want N", ref)
	}
	if rats[0] != [2]uint32{48, 1} {
		t.Errorf("degrees = %v, want {48 1}", rats[0])
	}
	if rats[1] != [2]uint32{30, 1} {
		t.Errorf("minutes = %v, want {30 1}", rats[1])
	}
	if rats[2][1] != 100 {
		t.Errorf("seconds denominator = %d, want 100", rats[2][1])
	}
}
