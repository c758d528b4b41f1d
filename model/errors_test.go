package model

import (
	"testing"

	"github.com/pkg/errors"
)

func TestPipelineErrorFormat(t *testing.T) {
	plain := NewError(CodeNoFile, "no audio file in request")
	if got := plain.Error(); got != "no_file: no audio file in request" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := WrapError(CodeUpload, "provider rejected the upload", errors.New("status 401"))
	if got := wrapped.Error(); got != "upload_error: provider rejected the upload: status 401" {
		t.Errorf("Error() = %q", got)
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	perr := WrapError(CodeInternal, "unexpected failure", cause)
	outer := errors.Wrap(perr, "request boundary")

	var got *PipelineError
	if !errors.As(outer, &got) {
		t.Fatalf("errors.As failed on %v", outer)
	}
	if got.Code != CodeInternal {
		t.Errorf("Code = %q", got.Code)
	}
	if !errors.Is(outer, cause) {
		t.Error("errors.Is lost the cause")
	}
}
