// Package imaging provides the image operations of the pipeline:
// format conversion and memory-style compositing.
//
// # Format Conversion
//
// A Converter normalizes source photos into one target container:
//
//	conv, err := imaging.NewConverter(imaging.FormatJPEG)
//	outPath, didConvert, err := conv.Convert("photo.webp")
//
// Conversion is a no-op pass-through when the source container already
// matches the target. Sources are decoded through the stdlib JPEG/PNG
// decoders plus the WebP decoder from golang.org/x/image.
//
// HEIC is a recognized target without an encoder in this build;
// EncoderAvailable reports that before any file is touched.
//
// # Compositing
//
// Compose overlays the secondary photo on the primary with a
// rounded-corner frame, reproducing the look of the app's own memory
// images:
//
//	combined := imaging.Compose(primaryImg, secondaryImg, true)
//
// The geometry (corner radius, outline width, paste offset, overlay
// scale) is fixed by named constants, and the result is fully
// deterministic for identical inputs.
package imaging
