package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mirzapolat/visual-bereal-processor/internal/config"
	"github.com/mirzapolat/visual-bereal-processor/internal/history"
	"github.com/mirzapolat/visual-bereal-processor/internal/pipeline"
)

func main() {
	// Command line flags
	var (
		baseDirFlag     = flag.String("base-dir", "", "Export archive directory (defaults to $BEREAL_BASE_DIR)")
		configFlag      = flag.String("config", "", "Path to config file")
		formatFlag      = flag.String("format", "", "Export format: jpg, png or heic (no heic encoder; overrides config)")
		sinceFlag       = flag.String("since", "", "Only process entries on or after this date (YYYY-MM-DD)")
		untilFlag       = flag.String("until", "", "Only process entries on or before this date (YYYY-MM-DD)")
		noCombineFlag   = flag.Bool("no-combine", false, "Skip building combined images")
		keepNamesFlag   = flag.Bool("keep-names", false, "Keep the original file name in output names")
		verboseFlag     = flag.Bool("verbose", false, "Show verbose output")
		noHistoryFlag   = flag.Bool("no-history", false, "Do not record this run in the history ledger")
		showHistoryFlag = flag.Bool("show-history", false, "Print recent runs and exit")
	)

	flag.Parse()

	baseDir := *baseDirFlag
	if baseDir == "" {
		baseDir = os.Getenv("BEREAL_BASE_DIR")
	}
	if baseDir == "" && flag.NArg() > 0 {
		baseDir = flag.Arg(0)
	}
	if baseDir == "" {
		fmt.Println("BeReal Photo Processor - Convert, tag and combine exported photos")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  bereal-process -base-dir <DIR> [options]")
		fmt.Println("  bereal-process <DIR> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: bereal-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	paths := config.DefaultPaths(baseDir)

	if *showHistoryFlag {
		printHistory(paths.HistoryPath)
		return
	}

	// Load config. An explicitly requested file must exist.
	settings := config.DefaultSettings()
	if *configFlag != "" {
		if _, err := os.Stat(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: config file not found: %s\n", *configFlag)
			os.Exit(1)
		}
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *formatFlag != "" {
		settings.ExportFormat = *formatFlag
	}
	if *sinceFlag != "" {
		settings.SinceDate = parseDateFlag("since", *sinceFlag)
	}
	if *untilFlag != "" {
		settings.UntilDate = parseDateFlag("until", *untilFlag)
	}
	if *noCombineFlag {
		settings.CreateCombinedImages = false
	}
	if *keepNamesFlag {
		settings.KeepOriginalFilename = true
	}
	if *verboseFlag {
		settings.VerboseLogging = true
	}
	if *noHistoryFlag {
		settings.KeepRunHistory = false
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	fmt.Println("📸 BeReal Photo Processor")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()
	printPreamble(paths)

	// In verbose mode every event is printed; otherwise only problems
	// reach the terminal and a progress bar shows the position.
	onProgress := func(event pipeline.ProgressEvent) {
		if settings.VerboseLogging {
			printEvent(event)
			return
		}
		if event.Level == pipeline.LevelError || event.Level == pipeline.LevelWarning {
			fmt.Fprintln(os.Stderr, event.Message)
		}
	}

	proc, err := pipeline.New(settings, paths, onProgress)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	stopBar := make(chan struct{})
	barDone := make(chan struct{})
	if settings.VerboseLogging {
		close(barDone)
	} else {
		go watchProgress(proc, stopBar, barDone)
	}

	startedAt := time.Now()
	report, err := proc.Run(ctx)
	close(stopBar)
	<-barDone
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nProcessing cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(report.Summary())

	if settings.KeepRunHistory {
		recordRun(paths.HistoryPath, proc, settings, startedAt)
	}
}

// printPreamble lists the archive directories and their source file
// counts before processing starts.
func printPreamble(paths config.Paths) {
	for _, dir := range []string{paths.PhotoDir, paths.LegacyPhotoDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		count := 0
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".webp") {
				count++
			}
		}
		fmt.Printf("  %s: %d source files\n", dir, count)
	}
	fmt.Println()
}

// watchProgress polls the processor and drives a terminal progress
// bar, one bar per counted stage. It owns the bar; nothing else
// writes to it.
func watchProgress(proc *pipeline.Processor, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var bar *progressbar.ProgressBar
	lastStage := pipeline.StageIdle
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			if bar != nil {
				bar.Finish()
			}
			return
		case <-ticker.C:
			stage, current, total := proc.Progress()
			if total == 0 {
				continue
			}
			if stage != lastStage {
				if bar != nil {
					bar.Finish()
				}
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription(stage.String()),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				lastStage = stage
			}
			bar.Set(current)
		}
	}
}

// printEvent writes one leveled progress line in verbose mode.
func printEvent(event pipeline.ProgressEvent) {
	prefix := "   "
	switch event.Level {
	case pipeline.LevelError:
		prefix = "❌ "
	case pipeline.LevelWarning:
		prefix = "⚠️  "
	case pipeline.LevelSuccess:
		prefix = "✅ "
	case pipeline.LevelInfo:
		prefix = "ℹ️  "
	}
	fmt.Println(prefix + event.Message)
}

// parseDateFlag parses a YYYY-MM-DD flag value or exits.
func parseDateFlag(name, value string) *time.Time {
	t, err := time.Parse(config.DateFormat, value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: -%s must be YYYY-MM-DD, got %q\n", name, value)
		os.Exit(1)
	}
	return &t
}

// recordRun appends this run to the history ledger.
func recordRun(historyPath string, proc *pipeline.Processor, settings *config.Settings, startedAt time.Time) {
	store, err := history.Open(historyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history: %v\n", err)
		return
	}
	defer store.Close()

	report := proc.Report()
	if err := store.RecordRun(report, settings.ExportFormat, startedAt, time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record run: %v\n", err)
	}
}

// printHistory lists the most recent runs from the ledger.
func printHistory(historyPath string) {
	store, err := history.Open(historyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.RecentRuns(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading history: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return
	}

	fmt.Println("Recent runs:")
	for _, r := range runs {
		fmt.Printf("  %s  format=%-4s processed=%-4d combined=%-4d skipped=%d\n",
			r.StartedAt.Format("2006-01-02 15:04"),
			r.Format, r.Processed, r.Combined, r.Skipped)
	}
}
