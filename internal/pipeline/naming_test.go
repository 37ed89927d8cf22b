package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOutputName(t *testing.T) {
	takenAt := time.Date(2023, 5, 14, 9, 21, 3, 0, time.UTC)

	tests := []struct {
		name string
		role string
		stem string
		ext  string
		want string
	}{
		{"primary without stem", "primary", "", ".jpg", "2023-05-14T09-21-03_primary.jpg"},
		{"secondary without stem", "secondary", "", ".png", "2023-05-14T09-21-03_secondary.png"},
		{"with original stem", "primary", "aBcDeF", ".jpg", "2023-05-14T09-21-03_primary_aBcDeF.jpg"},
		{"combined", "combined", "", ".jpg", "2023-05-14T09-21-03_combined.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputName(takenAt, tt.role, tt.stem, tt.ext)
			if got != tt.want {
				t.Errorf("outputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutputPathResolvesCollisions(t *testing.T) {
	dir := t.TempDir()
	takenAt := time.Date(2023, 5, 14, 9, 21, 3, 0, time.UTC)

	first := outputPath(dir, takenAt, "primary", "", ".jpg")
	if filepath.Base(first) != "2023-05-14T09-21-03_primary.jpg" {
		t.Fatalf("first = %q", first)
	}
	if err := os.WriteFile(first, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	second := outputPath(dir, takenAt, "primary", "", ".jpg")
	if filepath.Base(second) != "2023-05-14T09-21-03_primary_1.jpg" {
		t.Errorf("second = %q, want suffix _1", second)
	}
	if err := os.WriteFile(second, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	third := outputPath(dir, takenAt, "primary", "", ".jpg")
	if filepath.Base(third) != "2023-05-14T09-21-03_primary_2.jpg" {
		t.Errorf("third = %q, want suffix _2", third)
	}
}

func TestSourceStem(t *testing.T) {
	if got := sourceStem("/some/dir/aBcDeF123.webp"); got != "aBcDeF123" {
		t.Errorf("sourceStem() = %q, want %q", got, "aBcDeF123")
	}
}
