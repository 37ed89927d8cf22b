// Package config provides configuration management for the processor.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Lenient normalization of yes/no and date values
//   - Validation, including export-codec availability
//   - The directory layout derived from the base directory
//
// # Default Settings
//
// Use DefaultSettings() to get the stock behavior:
//
//	settings := config.DefaultSettings()
//	// JPEG export, combined images on, singles deleted after combining
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// Values are normalized at this boundary: booleans accept JSON bools,
// "yes"/"no", "true"/"false" and 0/1; dates use YYYY-MM-DD. A
// malformed value falls back to the field's default rather than
// failing the load.
//
// # Validation
//
// Validate must be called once before processing; it rejects unknown
// export formats and formats without an encoder in this build. The
// settings are treated as immutable afterwards.
package config
