// Package pipeline orchestrates a full processing run over an export
// archive.
//
// A run moves through fixed phases:
//
//  1. Validate the configuration and archive layout. Failures here
//     (unknown export format, missing manifest, unavailable encoder)
//     abort before any file is touched.
//  2. Load the manifest, drop malformed entries, apply the date
//     filter.
//  3. Per entry, per role: convert the source photo into the export
//     format, move it under its timestamp-based name into the singles
//     directory, and embed metadata when the output is a JPEG. A
//     failing role is skipped and counted without stopping the batch.
//  4. Build one composite per entry whose both roles survived, named
//     and embedded the same way.
//  5. Clean up: delete combined-away singles if configured, purge
//     backup and leftover source-format files, and relocate the
//     output directories into the archive root.
//
// Progress is reported through a callback of leveled events, mirrored
// by atomic counters that a UI can poll.
package pipeline
