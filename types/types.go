package types

import "time"

// ArtifactKind distinguishes the independently generated video of a cycle
// from the short clip derived from it.
type ArtifactKind string

const (
	KindPrimary ArtifactKind = "primary"
	KindDerived ArtifactKind = "derived"
)

// ArtifactClass controls the output format: long-form is 16:9 horizontal,
// short-form is 9:16 vertical for Shorts.
type ArtifactClass string

const (
	ClassLongForm  ArtifactClass = "longform"
	ClassShortForm ArtifactClass = "shortform"
)

// Script is the output of the text-generation stage
type Script struct {
	Title       string   `json:"title"`
	Narration   string   `json:"narration"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// GeneratedArtifact is one fully generated, not-yet-published video
type GeneratedArtifact struct {
	ID            string        `json:"id"`
	Kind          ArtifactKind  `json:"kind"`
	Class         ArtifactClass `json:"class"`
	Script        Script        `json:"script"`
	AudioFile     string        `json:"audio_file"`
	VideoFile     string        `json:"video_file"`
	ThumbnailFile string        `json:"thumbnail_file"`
}

// PublishedArtifact records one successful upload
type PublishedArtifact struct {
	Kind        ArtifactKind `json:"kind"`
	RemoteID    string       `json:"remote_id"`
	RemoteURL   string       `json:"remote_url"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
}

// CycleStatus is the outcome of one automation cycle
type CycleStatus string

const (
	StatusSuccess CycleStatus = "success"
	StatusFailure CycleStatus = "failure"
)

// CycleResult is the outcome of one orchestration pass.
// Artifacts is non-empty if and only if Status is StatusSuccess.
type CycleResult struct {
	Status    CycleStatus         `json:"status"`
	Artifacts []PublishedArtifact `json:"artifacts,omitempty"`
	Error     string              `json:"error,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// RunStatistics holds process-wide cycle counters owned by the scheduler.
// Counters reset on restart; nothing is persisted.
type RunStatistics struct {
	TotalRuns      int `json:"total_runs"`
	SuccessfulRuns int `json:"successful_runs"`
	FailedRuns     int `json:"failed_runs"`
}
