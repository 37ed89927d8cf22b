package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mirzapolat/visual-bereal-processor/internal/fsutil"
	"github.com/mirzapolat/visual-bereal-processor/internal/imaging"
)

// cleanup runs the lifecycle steps after the image phases. Every step
// is best-effort: a failure is reported as a warning and the next step
// still runs.
//
// Order matters. Deleting combined-away singles may empty the singles
// directory, backup purging must see those deletions, and relocation
// has to come last so earlier steps operate on the staging paths.
func (p *Processor) cleanup() {
	if p.settings.DeleteAfterCombine && p.settings.CreateCombinedImages {
		p.deleteCombinedSources()
	}

	p.removeBackups(p.paths.SinglesDir)
	p.removeBackups(p.paths.CombinedDir)

	p.removeIfEmpty(p.paths.SinglesDir)

	p.purgeSourceLeftovers(p.paths.SinglesDir)
	p.purgeSourceLeftovers(p.paths.CombinedDir)

	p.relocate(p.paths.SinglesDir)
	if p.settings.CreateCombinedImages {
		p.relocate(p.paths.CombinedDir)
	}
}

// deleteCombinedSources removes the single-image outputs that fed a
// composite. Singles whose composite was never written stay on disk,
// whether the pair was incomplete or the combine step failed.
func (p *Processor) deleteCombinedSources() {
	removed := 0
	for _, pr := range p.pairs {
		if !pr.combined {
			continue
		}
		for _, path := range []string{pr.primary.OutputPath, pr.secondary.OutputPath} {
			if err := os.Remove(path); err != nil {
				p.warnCleanup(path, err)
				continue
			}
			removed++
		}
	}
	if removed > 0 {
		p.emit(LevelVerbose, StageCleanup, 0, 0, "Removed combined source files")
	}
}

// removeBackups deletes the "~" files left behind by metadata writes.
func (p *Processor) removeBackups(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "~") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			p.warnCleanup(path, err)
		}
	}
}

// removeIfEmpty deletes dir when nothing is left inside it.
func (p *Processor) removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	if err := os.Remove(dir); err != nil {
		p.warnCleanup(dir, err)
	}
}

// purgeSourceLeftovers deletes stray source-format files from an
// output directory. The export format never matches the source
// format, so anything with the source extension is an intermediate.
func (p *Processor) purgeSourceLeftovers(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), imaging.SourceExtension) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			p.warnCleanup(path, err)
		}
	}
}

// relocate moves an output directory from its staging place under the
// photo directory into the archive root, appending a numeric suffix
// when the destination name is taken.
func (p *Processor) relocate(dir string) {
	if _, err := os.Stat(dir); err != nil {
		return
	}
	dest := fsutil.DirSuffix(p.paths.BaseDir, filepath.Base(dir))
	if err := os.Rename(dir, dest); err != nil {
		p.warnCleanup(dir, err)
		return
	}
	p.emit(LevelInfo, StageCleanup, 0, 0, "Moved output to "+dest)
}

func (p *Processor) warnCleanup(path string, err error) {
	ferr := &FilesystemError{Path: path, Err: err}
	p.emit(LevelWarning, StageCleanup, 0, 0, ferr.Error())
}
