package model

import "fmt"

// ErrorCode classifies a pipeline failure for the HTTP error envelope.
type ErrorCode string

const (
	CodeNoFile               ErrorCode = "no_file"
	CodeUpload               ErrorCode = "upload_error"
	CodeJobCreation          ErrorCode = "job_creation_error"
	CodeTranscription        ErrorCode = "transcription_error"
	CodeTranscriptionTimeout ErrorCode = "transcription_timeout"
	CodeNarration            ErrorCode = "narration_error"
	CodeInternal             ErrorCode = "internal_error"
)

// PipelineError carries a failure class and a human-readable detail from
// the pipelines up to the request boundary.
type PipelineError struct {
	Code   ErrorCode
	Detail string
	Err    error
}

// NewError returns a PipelineError without an underlying cause.
func NewError(code ErrorCode, detail string) *PipelineError {
	return &PipelineError{Code: code, Detail: detail}
}

// WrapError returns a PipelineError wrapping cause.
func WrapError(code ErrorCode, detail string, cause error) *PipelineError {
	return &PipelineError{Code: code, Detail: detail, Err: cause}
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *PipelineError) Unwrap() error { return e.Err }
