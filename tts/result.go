package tts

import "io"

// Result is the narration a synthesis call produced, exactly one of the
// three shapes a deployment can return. Callers switch on the concrete
// type; no variant shares fields with another.
type Result interface {
	isResult()
}

// URLAudio points at audio hosted by the provider.
type URLAudio struct {
	URL string
}

// InlineAudio carries the audio base64-encoded in the response body.
type InlineAudio struct {
	Base64 string
}

// StreamAudio carries raw audio bytes with their content type. The caller
// owns Body and must close it.
type StreamAudio struct {
	ContentType string
	Body        io.ReadCloser
}

func (URLAudio) isResult()    {}
func (InlineAudio) isResult() {}
func (StreamAudio) isResult() {}
