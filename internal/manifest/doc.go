// Package manifest reads the posts.json manifest of an export archive
// and turns its entries into domain models.
//
// Loading is strict about the file and lenient about individual
// entries: a missing or syntactically broken manifest fails the run,
// while a single malformed entry is skipped and counted.
//
// Filtering applies the configured date interval. Both bounds are
// inclusive and compared on the date component of the capture
// timestamp; manifest order is preserved.
package manifest
