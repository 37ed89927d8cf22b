package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"jpg", FormatJPEG, false},
		{"jpeg", FormatJPEG, false},
		{"JPEG", FormatJPEG, false},
		{".jpg", FormatJPEG, false},
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"heic", FormatHEIC, false},
		{"heif", FormatHEIC, false},
		{"tiff", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatMatches(t *testing.T) {
	tests := []struct {
		format Format
		path   string
		want   bool
	}{
		{FormatJPEG, "photo.jpg", true},
		{FormatJPEG, "photo.jpeg", true},
		{FormatJPEG, "photo.JPG", true},
		{FormatJPEG, "photo.png", false},
		{FormatPNG, "photo.png", true},
		{FormatPNG, "photo.jpg", false},
		{FormatJPEG, "photo.webp", false},
	}

	for _, tt := range tests {
		if got := tt.format.Matches(tt.path); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.format, tt.path, got, tt.want)
		}
	}
}

func TestEncoderAvailable(t *testing.T) {
	if err := EncoderAvailable(FormatJPEG); err != nil {
		t.Errorf("JPEG should have an encoder: %v", err)
	}
	if err := EncoderAvailable(FormatPNG); err != nil {
		t.Errorf("PNG should have an encoder: %v", err)
	}
	if err := EncoderAvailable(FormatHEIC); err == nil {
		t.Error("HEIC should report a missing encoder")
	}
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	return img
}

func TestConvertPassThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, testImage(20, 20), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	conv, err := NewConverter(FormatJPEG)
	if err != nil {
		t.Fatal(err)
	}
	out, didConvert, err := conv.Convert(path)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if didConvert {
		t.Error("matching container should not convert")
	}
	if out != path {
		t.Errorf("out = %q, want the source path", out)
	}
}

func TestConvertToPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.jpg")
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, testImage(20, 30), nil); err != nil {
		t.Fatal(err)
	}
	f.Close()

	conv, err := NewConverter(FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	out, didConvert, err := conv.Convert(src)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !didConvert {
		t.Error("mismatched container should convert")
	}
	if out != filepath.Join(dir, "photo.png") {
		t.Errorf("out = %q, want sibling with .png extension", out)
	}

	g, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()
	decoded, err := png.Decode(g)
	if err != nil {
		t.Fatalf("output is not valid PNG: %v", err)
	}
	if decoded.Bounds().Dx() != 20 || decoded.Bounds().Dy() != 30 {
		t.Errorf("dimensions changed: %v", decoded.Bounds())
	}
}

func TestNewConverterRejectsHEIC(t *testing.T) {
	if _, err := NewConverter(FormatHEIC); err == nil {
		t.Error("NewConverter(heic) should fail")
	}
}

func TestComposeDimensionsAndOverlay(t *testing.T) {
	primary := testImage(1000, 1200)

	// A pure white secondary makes the pasted overlay detectable.
	secondary := image.NewRGBA(image.Rect(0, 0, 1000, 1200))
	for y := 0; y < 1200; y++ {
		for x := 0; x < 1000; x++ {
			secondary.Set(x, y, color.RGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	combined := Compose(primary, secondary, true)

	if combined.Bounds().Dx() != 1000 || combined.Bounds().Dy() != 1200 {
		t.Fatalf("combined bounds = %v, want the base dimensions", combined.Bounds())
	}

	// Center of the overlay box must show the secondary photo.
	scaledW := int(1000 * OverlayScale)
	scaledH := int(1200 * OverlayScale)
	cx := PasteOffsetX + scaledW/2
	cy := PasteOffsetY + scaledH/2
	r, g, bl, _ := combined.At(cx, cy).RGBA()
	if r>>8 != 255 || g>>8 != 255 || bl>>8 != 255 {
		t.Errorf("overlay center = %v, want white", combined.At(cx, cy))
	}

	// The corner of the overlay box is outside the rounded mask, so
	// the black outline shows there.
	r, g, bl, _ = combined.At(PasteOffsetX+1, PasteOffsetY+1).RGBA()
	if r>>8 == 255 && g>>8 == 255 && bl>>8 == 255 {
		t.Error("overlay corner should not be white inside the rounded cut")
	}

	// Far from the overlay the base pixels are untouched.
	if got, want := combined.At(900, 1100), primary.At(900, 1100); !sameColor(got, want) {
		t.Errorf("base pixel changed: got %v, want %v", got, want)
	}
}

func TestComposeByteDeterminism(t *testing.T) {
	primary := testImage(640, 800)
	secondary := testImage(640, 800)

	encode := func() []byte {
		var buf bytes.Buffer
		combined := Compose(primary, secondary, true)
		if err := jpeg.Encode(&buf, combined, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(encode(), encode()) {
		t.Error("identical inputs should produce byte-identical output")
	}
}

func TestComposeSwapsRoles(t *testing.T) {
	big := testImage(800, 600)
	small := testImage(400, 300)

	asBase := Compose(big, small, true)
	if asBase.Bounds().Dx() != 800 {
		t.Errorf("rearPhotoLarge: base should be the primary, got width %d", asBase.Bounds().Dx())
	}

	swapped := Compose(big, small, false)
	if swapped.Bounds().Dx() != 400 {
		t.Errorf("swapped roles: base should be the secondary, got width %d", swapped.Bounds().Dx())
	}
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	return ar == br && ag == bg && ab == bb
}
