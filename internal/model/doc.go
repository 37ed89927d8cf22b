// Package model contains the core data types shared across the
// processing pipeline.
//
// The types map the stages of a run:
//
//   - Moment: one accepted manifest entry (a primary/secondary photo
//     pair with its capture time and optional location/caption)
//   - ProcessedImage: one renamed, format-normalized output file for a
//     single role of a Moment
//   - CombinedImage: the composite "memory" image built from a Moment's
//     two ProcessedImages
//   - Report: the mutable counters accumulated across a run
//
// All types are plain values; the pipeline owns their lifecycle.
package model
