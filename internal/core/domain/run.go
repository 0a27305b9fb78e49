package domain

import "time"

// RunStatus is the terminal state of a processing run.
type RunStatus string

const (
	// RunCompleted means the pipeline finished and outputs were written
	// (possibly zero, when the detector found nothing).
	RunCompleted RunStatus = "completed"

	// RunSkipped means the pipeline finished but outputs were
	// deliberately not written (no identifier, only_single gate).
	RunSkipped RunStatus = "skipped"

	// RunFailed means the pipeline aborted with an error.
	RunFailed RunStatus = "failed"
)

// Run is a persisted record of one processing invocation.
type Run struct {
	// ID is the unique run identifier.
	ID string

	// Container and Path identify the source blob.
	Container string
	Path      string

	// Identifier is the resolved catalogue identifier, if any.
	Identifier string

	// DetectionCount is how many detections the detector returned.
	DetectionCount int

	// OutputCount is how many output blobs were written.
	OutputCount int

	// Status is the terminal state.
	Status RunStatus

	// Error carries the failure message for failed runs.
	Error string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}
