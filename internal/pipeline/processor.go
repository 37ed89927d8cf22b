package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/mirzapolat/visual-bereal-processor/internal/config"
	"github.com/mirzapolat/visual-bereal-processor/internal/fsutil"
	"github.com/mirzapolat/visual-bereal-processor/internal/imaging"
	"github.com/mirzapolat/visual-bereal-processor/internal/manifest"
	"github.com/mirzapolat/visual-bereal-processor/internal/metadata"
	"github.com/mirzapolat/visual-bereal-processor/internal/model"
)

// pair tracks the two processed roles of one accepted entry. Pairing
// follows entry identity, so a skipped role in one entry never shifts
// the partner of another.
type pair struct {
	moment    model.Moment
	primary   *model.ProcessedImage
	secondary *model.ProcessedImage

	// combined is set once the composite for this pair has been
	// written. Cleanup only deletes singles that fed a real composite.
	combined bool
}

// complete reports whether both roles survived processing.
func (p *pair) complete() bool {
	return p.primary != nil && p.secondary != nil
}

// Processor runs the processing pipeline over one export archive.
type Processor struct {
	settings  *config.Settings
	paths     config.Paths
	converter *imaging.Converter
	embedder  metadata.Embedder

	onProgress func(ProgressEvent)

	report model.Report
	pairs  []*pair

	// Polled by UIs; updated atomically from the run goroutine.
	stage   atomic.Int64
	current atomic.Int64
	total   atomic.Int64
}

// New creates a Processor for the given configuration.
//
// The settings and archive layout are validated here; any problem is
// returned as a *ConfigError before a single file is read.
func New(settings *config.Settings, paths config.Paths, onProgress func(ProgressEvent)) (*Processor, error) {
	if err := settings.Validate(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	if err := paths.Check(); err != nil {
		return nil, &ConfigError{Err: err}
	}
	converter, err := imaging.NewConverter(settings.Format())
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	if onProgress == nil {
		onProgress = func(ProgressEvent) {}
	}
	return &Processor{
		settings:   settings,
		paths:      paths,
		converter:  converter,
		onProgress: onProgress,
	}, nil
}

// Progress returns the current stage and the position within it.
// Safe to call from any goroutine while Run is in flight.
func (p *Processor) Progress() (Stage, int, int) {
	return Stage(p.stage.Load()), int(p.current.Load()), int(p.total.Load())
}

// Report returns the counters accumulated so far.
func (p *Processor) Report() model.Report {
	return p.report
}

// Run executes the full pipeline and returns the final report.
//
// Only configuration-class problems and context cancellation abort
// the run; per-entry failures are counted and reported as events.
func (p *Processor) Run(ctx context.Context) (model.Report, error) {
	p.setStage(StageScan, 0, 0)

	p.report.InputFiles = p.countSourceFiles()
	p.emit(LevelInfo, StageScan, 0, 0, fmt.Sprintf("Found %d source files", p.report.InputFiles))

	loaded, err := manifest.Load(p.paths.ManifestPath)
	if err != nil {
		return p.report, &ConfigError{Err: err}
	}
	p.report.EntryErrors += loaded.Malformed
	if loaded.Malformed > 0 {
		p.emit(LevelWarning, StageScan, 0, 0, fmt.Sprintf("Skipped %d malformed manifest entries", loaded.Malformed))
	}

	moments, skipped := manifest.Filter(loaded.Moments, p.settings.SinceDate, p.settings.UntilDate)
	p.report.SkippedByDate = skipped
	if skipped > 0 {
		p.emit(LevelInfo, StageScan, 0, 0, fmt.Sprintf("Skipped %d entries outside the date range", skipped))
	}
	p.emit(LevelInfo, StageScan, 0, 0, fmt.Sprintf("Processing %d moments", len(moments)))

	if err := fsutil.EnsureDir(p.paths.SinglesDir); err != nil {
		return p.report, &ConfigError{Err: err}
	}
	if p.settings.CreateCombinedImages {
		if err := fsutil.EnsureDir(p.paths.CombinedDir); err != nil {
			return p.report, &ConfigError{Err: err}
		}
	}

	if err := p.processMoments(ctx, moments); err != nil {
		return p.report, err
	}
	if p.settings.CreateCombinedImages {
		if err := p.combinePairs(ctx); err != nil {
			return p.report, err
		}
	}

	p.setStage(StageCleanup, 0, 0)
	p.cleanup()

	p.setStage(StageDone, 0, 0)
	p.emit(LevelSuccess, StageDone, 0, 0, "Processing complete")
	return p.report, nil
}

// processMoments runs the single-image phase.
func (p *Processor) processMoments(ctx context.Context, moments []model.Moment) error {
	p.setStage(StageProcess, 0, len(moments))

	for i := range moments {
		if err := ctx.Err(); err != nil {
			return err
		}
		moment := moments[i]
		pr := &pair{moment: moment}

		for _, role := range []model.Role{model.RolePrimary, model.RoleSecondary} {
			img, err := p.processRole(&moment, role)
			if err != nil {
				p.report.Skipped++
				p.emit(LevelError, StageProcess, i+1, len(moments), err.Error())
				continue
			}
			if role == model.RolePrimary {
				pr.primary = img
			} else {
				pr.secondary = img
			}
		}

		p.pairs = append(p.pairs, pr)
		p.setStage(StageProcess, i+1, len(moments))
	}
	return nil
}

// processRole converts, names, places and embeds one photo of a
// moment. The returned image is valid even when metadata embedding
// failed; that failure surfaces as a warning event only.
func (p *Processor) processRole(moment *model.Moment, role model.Role) (*model.ProcessedImage, error) {
	src, err := p.paths.ResolveSource(moment.SourcePath(role))
	if err != nil {
		return nil, &EntryError{Source: moment.SourcePath(role), Err: err}
	}

	converted, didConvert, err := p.converter.Convert(src)
	if err != nil {
		return nil, &ConversionError{Path: src, Err: err}
	}

	stem := ""
	if p.settings.KeepOriginalFilename {
		stem = sourceStem(src)
	}
	format := p.converter.Format()
	dst := outputPath(p.paths.SinglesDir, moment.TakenAt, roleTag(role), stem, format.Extension())

	if didConvert {
		err = fsutil.MoveFile(converted, dst)
	} else {
		err = fsutil.CopyFile(src, dst)
	}
	if err != nil {
		return nil, &FilesystemError{Path: dst, Err: err}
	}

	p.report.Processed++
	if didConvert {
		p.report.Converted++
	}
	p.emit(LevelVerbose, StageProcess, 0, 0, "Wrote "+describeOutput(dst))

	img := &model.ProcessedImage{
		OutputPath: dst,
		Role:       role,
		TakenAt:    moment.TakenAt,
		Location:   moment.Location,
		Caption:    moment.Caption,
	}
	if format == imaging.FormatJPEG {
		if err := p.embedder.Embed(dst, metadata.PropertiesFor(img)); err != nil {
			merr := &MetadataError{Path: dst, Err: err}
			p.emit(LevelWarning, StageProcess, 0, 0, merr.Error())
		}
	}
	return img, nil
}

// combinePairs runs the composite phase over the complete pairs.
func (p *Processor) combinePairs(ctx context.Context) error {
	var complete []*pair
	for _, pr := range p.pairs {
		if pr.complete() {
			complete = append(complete, pr)
		}
	}
	p.setStage(StageCombine, 0, len(complete))

	for i, pr := range complete {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.combinePair(pr); err != nil {
			p.emit(LevelError, StageCombine, i+1, len(complete), err.Error())
		} else {
			pr.combined = true
		}
		p.setStage(StageCombine, i+1, len(complete))
	}
	return nil
}

// combinePair builds and embeds one composite.
func (p *Processor) combinePair(pr *pair) error {
	primaryImg, err := imaging.Decode(pr.primary.OutputPath)
	if err != nil {
		return &ConversionError{Path: pr.primary.OutputPath, Err: err}
	}
	secondaryImg, err := imaging.Decode(pr.secondary.OutputPath)
	if err != nil {
		return &ConversionError{Path: pr.secondary.OutputPath, Err: err}
	}

	composite := imaging.Compose(primaryImg, secondaryImg, p.settings.RearPhotoLarge)

	format := p.converter.Format()
	dst := outputPath(p.paths.CombinedDir, pr.moment.TakenAt, combinedRole, "", format.Extension())
	if err := p.converter.Save(dst, composite); err != nil {
		return &ConversionError{Path: dst, Err: err}
	}

	combined := &model.CombinedImage{
		OutputPath:      dst,
		TakenAt:         pr.moment.TakenAt,
		Location:        pr.moment.Location,
		Caption:         pr.moment.Caption,
		SourcePrimary:   pr.primary.OutputPath,
		SourceSecondary: pr.secondary.OutputPath,
	}
	if format == imaging.FormatJPEG {
		if err := p.embedder.Embed(dst, metadata.PropertiesForCombined(combined)); err != nil {
			merr := &MetadataError{Path: dst, Err: err}
			p.emit(LevelWarning, StageCombine, 0, 0, merr.Error())
		}
	}

	p.report.Combined++
	p.emit(LevelVerbose, StageCombine, 0, 0, "Wrote "+describeOutput(dst))
	return nil
}

// countSourceFiles counts the source-format photos in the photo
// directories.
func (p *Processor) countSourceFiles() int {
	count := 0
	for _, dir := range []string{p.paths.PhotoDir, p.paths.LegacyPhotoDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), imaging.SourceExtension) {
				count++
			}
		}
	}
	return count
}

func (p *Processor) setStage(stage Stage, current, total int) {
	p.stage.Store(int64(stage))
	p.current.Store(int64(current))
	p.total.Store(int64(total))
}

func (p *Processor) emit(level ProgressLevel, stage Stage, current, total int, message string) {
	p.onProgress(ProgressEvent{
		Message: message,
		Level:   level,
		Stage:   stage,
		Current: current,
		Total:   total,
	})
}
