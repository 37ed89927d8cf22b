// Package fsutil provides the file system primitives used by the
// processing pipeline.
//
// This package contains functions for:
//   - File copying and moving (with a copy fallback for cross-device
//     renames)
//   - Directory creation
//   - Collision-free output path probing
//
// All functions operate on paths; none of them hold state.
package fsutil
