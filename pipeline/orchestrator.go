package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"

	"storyteller/model"
)

const (
	defaultPollInterval = time.Second
	defaultBudget       = 60 * time.Second
)

// TranscriptionClient is the provider surface the orchestrator drives.
type TranscriptionClient interface {
	Upload(ctx context.Context, r io.Reader) (string, error)
	CreateTranscript(ctx context.Context, audioURL string) (model.Transcript, error)
	GetTranscript(ctx context.Context, id string) (model.Transcript, error)
}

// Config tunes the polling loop. Zero values use the production defaults.
type Config struct {
	PollInterval time.Duration
	Budget       time.Duration
}

// Orchestrator runs one uploaded clip through transcription start to
// finish: ingest the bytes, create a job, poll to a terminal state, clean
// up the temp file. One request owns one Orchestrator call; nothing is
// shared across requests.
type Orchestrator struct {
	client       TranscriptionClient
	logger       *log.Logger
	pollInterval time.Duration
	budget       time.Duration
}

// New returns an Orchestrator over client.
func New(client TranscriptionClient, logger *log.Logger, cfg Config) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Budget <= 0 {
		cfg.Budget = defaultBudget
	}
	return &Orchestrator{
		client:       client,
		logger:       logger,
		pollInterval: cfg.PollInterval,
		budget:       cfg.Budget,
	}
}

// Transcribe converts the clip to text. The clip's temp file is removed on
// every exit path, success or failure; removal problems are logged, never
// returned. An empty clip fails before any provider is contacted. A
// completed job with empty text is a success.
func (o *Orchestrator) Transcribe(ctx context.Context, clip model.AudioClip) (string, error) {
	defer o.cleanup(clip.Path)

	if clip.Size == 0 {
		return "", model.NewError(model.CodeNoFile, "uploaded audio is empty")
	}
	f, err := os.Open(clip.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", model.NewError(model.CodeNoFile, "uploaded audio is missing")
		}
		return "", errors.Wrap(err, "open audio clip")
	}
	defer f.Close()

	audioURL, err := o.client.Upload(ctx, f)
	if err != nil {
		return "", model.WrapError(model.CodeUpload, "provider rejected the upload", err)
	}
	if audioURL == "" {
		return "", model.NewError(model.CodeUpload, "provider returned no reference URL")
	}

	job, err := o.client.CreateTranscript(ctx, audioURL)
	if err != nil {
		return "", model.WrapError(model.CodeJobCreation, "could not create transcription job", err)
	}
	if job.ID == "" {
		return "", model.NewError(model.CodeJobCreation, "provider returned no job id")
	}
	o.logger.Printf("transcription job %s created", job.ID)

	final, err := o.awaitTranscript(ctx, job.ID)
	if err != nil {
		return "", err
	}
	return final.Text, nil
}

// awaitTranscript polls the job to a terminal status or until the
// wall-clock budget runs out. The budget is re-checked on both sides of
// every provider call, so a finished budget is noticed before the next
// sleep and the wait never stretches past it by more than one interval.
func (o *Orchestrator) awaitTranscript(ctx context.Context, id string) (model.Transcript, error) {
	deadline := time.Now().Add(o.budget)
	for {
		if time.Now().After(deadline) {
			return model.Transcript{}, o.timeoutError(id)
		}
		tr, err := o.client.GetTranscript(ctx, id)
		if err != nil {
			return model.Transcript{}, errors.Wrap(err, "poll transcription job")
		}
		switch tr.Status {
		case model.StatusCompleted:
			return tr, nil
		case model.StatusError:
			detail := tr.Error
			if detail == "" {
				detail = "transcription failed"
			}
			return model.Transcript{}, model.NewError(model.CodeTranscription, detail)
		}
		if time.Now().After(deadline) {
			return model.Transcript{}, o.timeoutError(id)
		}
		time.Sleep(o.pollInterval)
	}
}

func (o *Orchestrator) timeoutError(id string) *model.PipelineError {
	return model.NewError(model.CodeTranscriptionTimeout,
		fmt.Sprintf("transcription job %s did not finish within %s", id, o.budget))
}

// cleanup removes the request's temp file.
func (o *Orchestrator) cleanup(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		o.logger.Printf("remove temp file %s: %v", path, err)
	}
}
