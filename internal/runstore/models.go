package runstore

import "time"

// Status captures the lifecycle state of a pipeline run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is a single pipeline invocation.
type Run struct {
	ID           string
	AudioPath    string
	MappingPath  string
	Duration     float64
	FPS          int
	Threshold    int
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Artifact kinds recorded per run.
const (
	ArtifactTranscript = "transcript"
	ArtifactResolved   = "resolved"
	ArtifactTimeline   = "timeline"
	ArtifactVideo      = "video"
)

// Artifact is an output file produced by a run stage.
type Artifact struct {
	RunID     string
	Kind      string
	Path      string
	CreatedAt time.Time
}
