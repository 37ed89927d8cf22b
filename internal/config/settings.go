package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/imaging"
)

// DateFormat is the layout for since_date and until_date values.
const DateFormat = "2006-01-02"

// Settings holds all configuration options of a run.
//
// Flag-style values are genuine booleans; the lenient yes/no forms of
// the JSON file are normalized away in UnmarshalJSON. A Settings value
// is validated once and immutable afterwards.
type Settings struct {
	// ExportFormat is the target container: "jpg", "png" or "heic".
	ExportFormat string `json:"export_format"`

	// KeepOriginalFilename appends the source file's stem to the
	// renamed output name.
	KeepOriginalFilename bool `json:"keep_original_filename"`

	// CreateCombinedImages enables the composite "memory" phase.
	CreateCombinedImages bool `json:"create_combined_images"`

	// RearPhotoLarge makes the rear-camera (primary) photo the base
	// of the composite; when false the roles swap.
	RearPhotoLarge bool `json:"rear_photo_large"`

	// SinceDate and UntilDate bound the closed date interval of
	// accepted entries. Nil means unbounded on that side.
	SinceDate *time.Time `json:"since_date"`
	UntilDate *time.Time `json:"until_date"`

	// DeleteAfterCombine removes the single-image outputs that fed a
	// composite once the batch completes.
	DeleteAfterCombine bool `json:"delete_processed_files_after_combining"`

	// VerboseLogging switches the console output from progress bars
	// to extensive logs.
	VerboseLogging bool `json:"use_verbose_logging"`

	// KeepRunHistory records each run's summary in the SQLite ledger.
	KeepRunHistory bool `json:"keep_run_history"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		ExportFormat:         string(imaging.FormatJPEG),
		KeepOriginalFilename: false,
		CreateCombinedImages: true,
		RearPhotoLarge:       true,
		DeleteAfterCombine:   true,
		VerboseLogging:       false,
		KeepRunHistory:       true,
	}
}

// Load reads settings from a JSON file.
//
// A missing file yields the defaults; an unreadable or syntactically
// invalid file is an error. Individual malformed values inside a valid
// file fall back to their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalJSON writes the canonical form (real booleans, YYYY-MM-DD
// dates), regardless of what spelling the file was loaded with.
func (s *Settings) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"export_format":                          s.ExportFormat,
		"keep_original_filename":                 s.KeepOriginalFilename,
		"create_combined_images":                 s.CreateCombinedImages,
		"rear_photo_large":                       s.RearPhotoLarge,
		"delete_processed_files_after_combining": s.DeleteAfterCombine,
		"use_verbose_logging":                    s.VerboseLogging,
		"keep_run_history":                       s.KeepRunHistory,
	}
	if s.SinceDate != nil {
		out["since_date"] = s.SinceDate.Format(DateFormat)
	}
	if s.UntilDate != nil {
		out["until_date"] = s.UntilDate.Format(DateFormat)
	}
	return json.Marshal(out)
}

// UnmarshalJSON merges the file's values over the receiver, which is
// expected to carry the defaults. Lenient spellings are normalized
// here, once, so the rest of the program only sees real booleans and
// time values.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["export_format"]; ok {
		var format string
		if err := json.Unmarshal(v, &format); err == nil && format != "" {
			s.ExportFormat = format
		}
	}

	boolKeys := map[string]*bool{
		"keep_original_filename":                 &s.KeepOriginalFilename,
		"create_combined_images":                 &s.CreateCombinedImages,
		"rear_photo_large":                       &s.RearPhotoLarge,
		"delete_processed_files_after_combining": &s.DeleteAfterCombine,
		"use_verbose_logging":                    &s.VerboseLogging,
		"keep_run_history":                       &s.KeepRunHistory,
	}
	for key, dst := range boolKeys {
		if v, ok := raw[key]; ok {
			if b, ok := parseYesNo(v); ok {
				*dst = b
			}
		}
	}

	if v, ok := raw["since_date"]; ok {
		if t, ok := parseDate(v); ok {
			s.SinceDate = t
		}
	}
	if v, ok := raw["until_date"]; ok {
		if t, ok := parseDate(v); ok {
			s.UntilDate = t
		}
	}

	return nil
}

// Validate checks the settings once, before processing.
//
// It rejects an unknown export format, a format without an encoder in
// this build, and inverted date bounds.
func (s *Settings) Validate() error {
	format, err := imaging.ParseFormat(s.ExportFormat)
	if err != nil {
		return err
	}
	if err := imaging.EncoderAvailable(format); err != nil {
		return fmt.Errorf("export format %q: %w", s.ExportFormat, err)
	}
	if s.SinceDate != nil && s.UntilDate != nil && s.SinceDate.After(*s.UntilDate) {
		return fmt.Errorf("since_date %s is after until_date %s",
			s.SinceDate.Format(DateFormat), s.UntilDate.Format(DateFormat))
	}
	return nil
}

// Format returns the parsed export format. Call Validate first;
// after a successful validation this cannot fail.
func (s *Settings) Format() imaging.Format {
	format, _ := imaging.ParseFormat(s.ExportFormat)
	return format
}

// parseYesNo normalizes a JSON value into a boolean.
//
// Accepted: JSON booleans, the strings "yes"/"no", "true"/"false",
// "1"/"0" (case-insensitive), and the numbers 1/0. Anything else is
// reported as not-ok so the caller keeps the default.
func parseYesNo(raw json.RawMessage) (value, ok bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		switch strings.ToLower(strings.TrimSpace(str)) {
		case "yes", "true", "1":
			return true, true
		case "no", "false", "0":
			return false, true
		}
		return false, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		switch n {
		case 1:
			return true, true
		case 0:
			return false, true
		}
	}
	return false, false
}

// parseDate normalizes a JSON value into an optional date.
//
// null, "" and "null" clear the bound; a YYYY-MM-DD string sets it.
// A malformed string is reported as not-ok so the caller keeps the
// default.
func parseDate(raw json.RawMessage) (*time.Time, bool) {
	if string(raw) == "null" {
		return nil, true
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return nil, false
	}
	str = strings.TrimSpace(str)
	if str == "" || str == "null" {
		return nil, true
	}

	t, err := time.Parse(DateFormat, str)
	if err != nil {
		return nil, false
	}
	return &t, true
}
