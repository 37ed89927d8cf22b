package metadata

import (
	"image/jpeg"
	"os"
	"testing"
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// readIPTCDatasets extracts the IPTC datasets from the file at path.
func readIPTCDatasets(t *testing.T, path string) map[[2]byte]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	segs, _, err := splitJPEG(data)
	if err != nil {
		t.Fatal(err)
	}

	i := findSegment(segs, markerAPP13, psHeader)
	if i < 0 {
		t.Fatal("no APP13 Photoshop segment found")
	}
	resources, err := parseResources(segs[i].data[len(psHeader):])
	if err != nil {
		t.Fatalf("parseResources() error = %v", err)
	}
	ri := findResource(resources, iptcResourceID)
	if ri < 0 {
		t.Fatal("no IPTC resource found")
	}

	out := map[[2]byte]string{}
	for _, ds := range parseDatasets(resources[ri].data) {
		out[[2]byte{ds.record, ds.number}] = string(ds.value)
	}
	return out
}

func TestWriteIPTC(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")

	props := Properties{
		TakenAt: time.Date(2023, 5, 14, 9, 21, 3, 0, time.UTC),
		Caption: "lunch break",
	}
	if err := writeIPTC(path, props); err != nil {
		t.Fatalf("writeIPTC() error = %v", err)
	}

	sets := readIPTCDatasets(t, path)
	if got := sets[[2]byte{2, 120}]; got != "lunch break" {
		t.Errorf("caption/abstract = %q, want %q", got, "lunch break")
	}
	if got := sets[[2]byte{2, 115}]; got != iptcSourceValue {
		t.Errorf("source = %q, want %q", got, iptcSourceValue)
	}
	if got := sets[[2]byte{2, 65}]; got != iptcProgramValue {
		t.Errorf("originating program = %q, want %q", got, iptcProgramValue)
	}
	if got := sets[[2]byte{1, 90}]; got != iptcCharsetUTF8 {
		t.Errorf("coded character set = %q, want the UTF-8 marker", got)
	}
}

func TestWriteIPTCLeavesBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeTestJPEG(t, dir, "photo.jpg")

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := writeIPTC(path, Properties{TakenAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	backup, err := os.ReadFile(path + "~")
	if err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if string(backup) != string(original) {
		t.Error("backup does not match the pre-write content")
	}
}

func TestWriteIPTCWithoutCaption(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")

	if err := writeIPTC(path, Properties{TakenAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	sets := readIPTCDatasets(t, path)
	if _, ok := sets[[2]byte{2, 120}]; ok {
		t.Error("caption/abstract should be absent when no caption was given")
	}
	if got := sets[[2]byte{2, 115}]; got != iptcSourceValue {
		t.Errorf("source = %q, want %q", got, iptcSourceValue)
	}
}

func TestEmbedRunsBothGroups(t *testing.T) {
	path := writeTestJPEG(t, t.TempDir(), "photo.jpg")

	var e Embedder
	props := Properties{
		TakenAt:  time.Date(2023, 5, 14, 9, 21, 3, 0, time.UTC),
		Location: &model.Location{Latitude: 48.1374, Longitude: 11.5755},
		Caption:  "both groups",
	}
	if err := e.Embed(path, props); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	segs, _, err := splitJPEG(data)
	if err != nil {
		t.Fatal(err)
	}
	if findSegment(segs, markerAPP1, exifHeader) < 0 {
		t.Error("no EXIF segment after Embed")
	}
	if findSegment(segs, markerAPP13, psHeader) < 0 {
		t.Error("no IPTC segment after Embed")
	}

	// The file must stay a decodable JPEG.
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Fatalf("file no longer decodes as JPEG: %v", err)
	}
}
