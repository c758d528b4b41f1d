package model

// AudioClip is one uploaded recording persisted to a temporary path for
// the duration of a single request.
type AudioClip struct {
	Path string
	MIME string
	Size int64
}

// TranscriptStatus is the provider-reported state of a transcription job.
type TranscriptStatus string

const (
	StatusQueued     TranscriptStatus = "queued"
	StatusProcessing TranscriptStatus = "processing"
	StatusCompleted  TranscriptStatus = "completed"
	StatusError      TranscriptStatus = "error"
)

// Transcript is the provider's view of one transcription job.
type Transcript struct {
	ID     string
	Status TranscriptStatus
	Text   string
	Error  string
}
