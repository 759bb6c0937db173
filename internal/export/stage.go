package export

import (
	"context"
	"time"
)

// State is the orchestrator's lifecycle position.
type State string

const (
	StatePending    State = "pending"
	StateExtracting State = "extracting"
	StateRendering  State = "rendering"
	StateAssembling State = "assembling"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// StageName identifies one pipeline stage.
type StageName string

const (
	StageExtract  StageName = "extract"
	StageRender   StageName = "render"
	StageAssemble StageName = "assemble"
)

// stageDef binds a stage name to its function and the state the run is
// in while it executes.
type stageDef struct {
	Name  StageName
	State State
	Fn    func(ctx context.Context, rs *runState) error
}

// StageResult is the outcome of one stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// Report summarizes one export run.
type Report struct {
	RunID          string                       `json:"run_id"`
	ProjectName    string                       `json:"project_name"`
	State          State                        `json:"state"`
	StageDurations map[StageName]time.Duration  `json:"stage_durations"`
	StageResults   map[StageName]StageResult    `json:"stage_results"`
	AssetsExtracted int                         `json:"assets_extracted"`
	Files          []string                     `json:"files"`
	ArchiveBytes   int64                        `json:"archive_bytes"`
	StartedAt      time.Time                    `json:"started_at"`
	Duration       time.Duration                `json:"duration"`
	Error          string                       `json:"error,omitempty"`
}

func newReport(runID, projectName string) *Report {
	return &Report{
		RunID:          runID,
		ProjectName:    projectName,
		State:          StatePending,
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]StageResult),
		StartedAt:      time.Now(),
	}
}

// Observer receives stage lifecycle callbacks. All methods may be
// called from the exporting goroutine only.
type Observer interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, d time.Duration, result StageResult)
	OnExportComplete(report *Report)
}

// NoopObserver ignores all callbacks.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(StageName)                                {}
func (NoopObserver) OnStageComplete(StageName, time.Duration, StageResult) {}
func (NoopObserver) OnExportComplete(*Report)                              {}
