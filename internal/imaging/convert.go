package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp" // WebP decoder registration
)

// Format is a supported export container.
type Format string

const (
	// FormatJPEG is the lossy default. It is the only format whose
	// container carries the EXIF and IPTC metadata groups.
	FormatJPEG Format = "jpg"

	// FormatPNG is lossless and keeps an alpha channel when the
	// source has one.
	FormatPNG Format = "png"

	// FormatHEIC is accepted by the configuration but has no encoder
	// in this build; requesting it fails validation.
	FormatHEIC Format = "heic"
)

// SourceExtension is the container the export archive delivers photos
// in. Leftover files with this extension are purged from the output
// directories when the export format differs.
const SourceExtension = ".webp"

// JPEGQuality is the fixed quality used for lossy re-encoding.
const JPEGQuality = 80

// ParseFormat normalizes a user-supplied format name.
//
// Accepted spellings: "jpg"/"jpeg", "png", "heic"/"heif",
// case-insensitive, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "heic", "heif":
		return FormatHEIC, nil
	}
	return "", fmt.Errorf("unknown export format %q (available: jpg, png, heic)", s)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Matches reports whether the file at path is already stored in this
// container, judged by extension. ".jpeg" counts as JPEG.
func (f Format) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if f == FormatJPEG {
		return ext == ".jpg" || ext == ".jpeg"
	}
	return ext == f.Extension()
}

// EncoderAvailable reports whether the runtime can encode the format.
//
// A format without an encoder is a configuration error, checked once
// before processing starts, never a per-file failure.
func EncoderAvailable(f Format) error {
	switch f {
	case FormatJPEG, FormatPNG:
		return nil
	case FormatHEIC:
		return fmt.Errorf("no HEIC encoder is available in this build")
	}
	return fmt.Errorf("unknown export format %q", f)
}

// Converter normalizes source photos into one target container.
type Converter struct {
	format  Format
	quality int
}

// NewConverter creates a Converter for the target format.
//
// Returns an error when the format has no encoder, so a misconfigured
// run fails before any file is read.
func NewConverter(format Format) (*Converter, error) {
	if err := EncoderAvailable(format); err != nil {
		return nil, err
	}
	return &Converter{format: format, quality: JPEGQuality}, nil
}

// Format returns the target container.
func (c *Converter) Format() Format {
	return c.format
}

// Convert converts the file at srcPath into the target container.
//
// When the source container already matches the target, srcPath is
// returned unchanged with didConvert=false and no file is touched.
// Otherwise the source is decoded, re-encoded next to it with the
// target extension, and the new path is returned with didConvert=true.
//
// The caller owns the returned file: on a pass-through the source must
// be copied, on a conversion the new sibling file must be moved into
// the output directory.
func (c *Converter) Convert(srcPath string) (string, bool, error) {
	if c.format.Matches(srcPath) {
		return srcPath, false, nil
	}

	img, err := decodeFile(srcPath)
	if err != nil {
		return "", false, fmt.Errorf("decode %s: %w", srcPath, err)
	}

	dstPath := strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + c.format.Extension()
	if err := c.encodeFile(dstPath, img); err != nil {
		return "", false, fmt.Errorf("encode %s: %w", dstPath, err)
	}
	return dstPath, true, nil
}

// Save encodes img at path in the target container. Used for images
// produced in memory, such as composites.
func (c *Converter) Save(path string, img image.Image) error {
	return c.encodeFile(path, img)
}

// Decode reads an image file using the registered decoders
// (JPEG, PNG, WebP).
func Decode(path string) (image.Image, error) {
	return decodeFile(path)
}

// decodeFile decodes a source photo using the registered decoders
// (JPEG, PNG, WebP).
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// encodeFile writes img to path in the target container.
func (c *Converter) encodeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch c.format {
	case FormatJPEG:
		// Opaque target: drop any alpha channel first.
		return jpeg.Encode(f, Flatten(img), &jpeg.Options{Quality: c.quality})
	case FormatPNG:
		return png.Encode(f, img)
	}
	return fmt.Errorf("no encoder for format %q", c.format)
}

// Flatten redraws img onto an opaque RGBA canvas, discarding alpha.
func Flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst
}
