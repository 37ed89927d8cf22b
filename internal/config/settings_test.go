package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.ExportFormat != "jpg" {
		t.Errorf("ExportFormat = %q, want %q", s.ExportFormat, "jpg")
	}
	if s.KeepOriginalFilename {
		t.Error("KeepOriginalFilename should default to false")
	}
	if !s.CreateCombinedImages {
		t.Error("CreateCombinedImages should default to true")
	}
	if !s.RearPhotoLarge {
		t.Error("RearPhotoLarge should default to true")
	}
	if !s.DeleteAfterCombine {
		t.Error("DeleteAfterCombine should default to true")
	}
	if s.VerboseLogging {
		t.Error("VerboseLogging should default to false")
	}
	if s.SinceDate != nil || s.UntilDate != nil {
		t.Error("date bounds should default to nil")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.ExportFormat != "jpg" || !s.CreateCombinedImages {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadNormalizesLenientValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"export_format": "PNG",
		"keep_original_filename": "yes",
		"create_combined_images": "no",
		"rear_photo_large": false,
		"use_verbose_logging": 1,
		"since_date": "2023-05-01",
		"until_date": "2023-06-30"
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.ExportFormat != "PNG" {
		t.Errorf("ExportFormat = %q, want %q", s.ExportFormat, "PNG")
	}
	if !s.KeepOriginalFilename {
		t.Error("keep_original_filename: \"yes\" should parse as true")
	}
	if s.CreateCombinedImages {
		t.Error("create_combined_images: \"no\" should parse as false")
	}
	if s.RearPhotoLarge {
		t.Error("rear_photo_large: false should parse as false")
	}
	if !s.VerboseLogging {
		t.Error("use_verbose_logging: 1 should parse as true")
	}
	if s.SinceDate == nil || s.SinceDate.Format(DateFormat) != "2023-05-01" {
		t.Errorf("SinceDate = %v, want 2023-05-01", s.SinceDate)
	}
	if s.UntilDate == nil || s.UntilDate.Format(DateFormat) != "2023-06-30" {
		t.Errorf("UntilDate = %v, want 2023-06-30", s.UntilDate)
	}
}

func TestLoadMalformedValuesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
		"create_combined_images": "maybe",
		"since_date": "05/01/2023"
	}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !s.CreateCombinedImages {
		t.Error("malformed boolean should keep the default true")
	}
	if s.SinceDate != nil {
		t.Errorf("malformed date should keep the default nil, got %v", s.SinceDate)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	s := DefaultSettings()
	s.ExportFormat = "png"
	since := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	s.SinceDate = &since

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.ExportFormat != "png" {
		t.Errorf("ExportFormat = %q, want %q", loaded.ExportFormat, "png")
	}
	if loaded.SinceDate == nil || !loaded.SinceDate.Equal(since) {
		t.Errorf("SinceDate = %v, want %v", loaded.SinceDate, since)
	}
}

func TestValidate(t *testing.T) {
	may := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"jpeg spelling", func(s *Settings) { s.ExportFormat = "JPEG" }, false},
		{"png", func(s *Settings) { s.ExportFormat = "png" }, false},
		{"heic has no encoder", func(s *Settings) { s.ExportFormat = "heic" }, true},
		{"unknown format", func(s *Settings) { s.ExportFormat = "tiff" }, true},
		{"inverted bounds", func(s *Settings) { s.SinceDate = &may; s.UntilDate = &april }, true},
		{"ordered bounds", func(s *Settings) { s.SinceDate = &april; s.UntilDate = &may }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
