package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

func TestRecordAndList(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "sub", "history.sqlite"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	reports := []model.Report{
		{InputFiles: 10, Processed: 8, Converted: 8, Combined: 4},
		{InputFiles: 12, Processed: 12, Converted: 0, Skipped: 2},
	}
	for i, r := range reports {
		s := started.Add(time.Duration(i) * time.Hour)
		if err := store.RecordRun(r, "jpg", s, s.Add(time.Minute)); err != nil {
			t.Fatalf("RecordRun() error = %v", err)
		}
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}

	// Newest first.
	if runs[0].InputFiles != 12 {
		t.Errorf("runs[0].InputFiles = %d, want 12", runs[0].InputFiles)
	}
	if runs[1].Combined != 4 {
		t.Errorf("runs[1].Combined = %d, want 4", runs[1].Combined)
	}
	if runs[0].Format != "jpg" {
		t.Errorf("Format = %q, want jpg", runs[0].Format)
	}
}

func TestRecentRunsLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		s := now.Add(time.Duration(i) * time.Minute)
		if err := store.RecordRun(model.Report{InputFiles: i}, "png", s, s); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.RecentRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs, want 3", len(runs))
	}
}
