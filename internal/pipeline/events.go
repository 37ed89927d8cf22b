package pipeline

// ProgressLevel indicates the severity of a progress event.
type ProgressLevel int

const (
	// LevelInfo is a normal progress message.
	LevelInfo ProgressLevel = iota

	// LevelVerbose is a detailed message only shown in verbose mode.
	LevelVerbose

	// LevelWarning is a non-fatal problem; the run continues.
	LevelWarning

	// LevelError is a per-entry failure; the run continues past it.
	LevelError

	// LevelSuccess marks a completed phase.
	LevelSuccess
)

// Stage identifies the phase a run is currently in.
type Stage int

const (
	// StageIdle means the run has not started yet.
	StageIdle Stage = iota

	// StageScan covers manifest loading and filtering.
	StageScan

	// StageProcess covers the per-role single-image phase.
	StageProcess

	// StageCombine covers composite building.
	StageCombine

	// StageCleanup covers the lifecycle phase.
	StageCleanup

	// StageDone means the run has finished.
	StageDone
)

// String returns a human-readable phase name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageScan:
		return "scanning"
	case StageProcess:
		return "processing"
	case StageCombine:
		return "combining"
	case StageCleanup:
		return "cleaning up"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// ProgressEvent is one progress notification from a run.
//
// Current and Total describe the position within the current stage;
// both are zero for messages outside a counted loop.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Stage   Stage
	Current int
	Total   int
}
