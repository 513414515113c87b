package entities

import (
	"time"

	"github.com/google/uuid"
)

// RunStage is the state of a single meeting-notes request
type RunStage string

const (
	RunStageIdle            RunStage = "idle"
	RunStageNormalizing     RunStage = "normalizing"      // Audio is being recognized and normalized
	RunStageBuildingRequest RunStage = "building_request" // Prompt is being assembled
	RunStageInvoking        RunStage = "invoking"         // Waiting on the inference backend
	RunStageDone            RunStage = "done"
	RunStageFailed          RunStage = "failed"
)

// InputSource records where the transcript came from
type InputSource string

const (
	InputSourceAudio  InputSource = "audio"
	InputSourceManual InputSource = "manual"
)

// GenerationRun tracks one pass through the pipeline. It is never resumed:
// once Done or Failed, a new run must be started.
type GenerationRun struct {
	ID               uuid.UUID
	Source           InputSource
	IdentifySpeakers bool
	Stage            RunStage
	FailedIn         RunStage
	LastError        error
	StartedAt        time.Time
	CompletedAt      *time.Time
}

// NewGenerationRun creates an idle run
func NewGenerationRun(source InputSource, identifySpeakers bool) *GenerationRun {
	return &GenerationRun{
		ID:               uuid.New(),
		Source:           source,
		IdentifySpeakers: identifySpeakers,
		Stage:            RunStageIdle,
		StartedAt:        time.Now(),
	}
}

// IsTerminal reports whether the run has finished
func (r *GenerationRun) IsTerminal() bool {
	return r.Stage == RunStageDone || r.Stage == RunStageFailed
}

// Advance moves the run to the next stage. Terminal runs do not move.
func (r *GenerationRun) Advance(stage RunStage) bool {
	if r.IsTerminal() {
		return false
	}
	r.Stage = stage
	return true
}

// MarkAsDone marks the run as completed successfully
func (r *GenerationRun) MarkAsDone() {
	if r.IsTerminal() {
		return
	}
	r.Stage = RunStageDone
	now := time.Now()
	r.CompletedAt = &now
}

// MarkAsFailed records the stage the run failed in
func (r *GenerationRun) MarkAsFailed(err error) {
	if r.IsTerminal() {
		return
	}
	r.FailedIn = r.Stage
	r.Stage = RunStageFailed
	r.LastError = err
	now := time.Now()
	r.CompletedAt = &now
}

// Duration returns how long the run took, or has taken so far
func (r *GenerationRun) Duration() time.Duration {
	if r.CompletedAt != nil {
		return r.CompletedAt.Sub(r.StartedAt)
	}
	return time.Since(r.StartedAt)
}
