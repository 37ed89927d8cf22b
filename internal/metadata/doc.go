// Package metadata embeds capture metadata into JPEG files.
//
// Two metadata groups are written, always in the same order:
//
//  1. EXIF (APP1): DateTimeOriginal, the GPS position in
//     degree/minute/second rationals, and the caption as
//     ImageDescription.
//  2. IPTC (APP13): caption/abstract, a fixed source tag and an
//     originating-program tag identifying this tool.
//
// Each group is written by an independent read-modify-rewrite pass
// over the file, so a failure in one group never blocks the other.
// Existing segments of either group are merged with, not clobbered:
// tags this package does not manage are preserved.
//
// The IPTC pass keeps the previous file content as a "~" backup next
// to the original, which the pipeline's cleanup step later removes.
//
// Only the JPEG container carries these groups; callers skip
// embedding for other export formats.
package metadata
