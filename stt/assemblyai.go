package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"storyteller/model"
)

const defaultBaseURL = "https://api.assemblyai.com"

// Client calls the AssemblyAI v2 REST API: raw audio bytes go in through
// the upload endpoint, a transcription job is created against the returned
// reference, and the job is read back until it reaches a terminal status.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient returns a Client against the production API.
func NewClient(apiKey string, logger *log.Logger) *Client {
	return NewClientWithURL(apiKey, defaultBaseURL, logger)
}

// NewClientWithURL returns a Client against a caller-supplied base URL.
// Tests point this at a local server.
func NewClientWithURL(apiKey, baseURL string, logger *log.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type transcriptRequest struct {
	AudioURL string `json:"audio_url"`
}

type transcriptResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}

func (r transcriptResponse) toModel() model.Transcript {
	return model.Transcript{
		ID:     r.ID,
		Status: model.TranscriptStatus(r.Status),
		Text:   r.Text,
		Error:  r.Error,
	}
}

// Upload streams the raw audio bytes to the ingestion endpoint and returns
// the reference URL a transcription job can be created against.
func (c *Client) Upload(ctx context.Context, r io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", r)
	if err != nil {
		return "", errors.Wrap(err, "build upload request")
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "upload audio")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("upload audio: %s", responseError(resp))
	}
	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "decode upload response")
	}
	c.logger.Printf("audio uploaded, reference %s", out.UploadURL)
	return out.UploadURL, nil
}

// CreateTranscript starts a transcription job for an uploaded clip.
func (c *Client) CreateTranscript(ctx context.Context, audioURL string) (model.Transcript, error) {
	payload, err := json.Marshal(transcriptRequest{AudioURL: audioURL})
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "marshal transcript request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "build transcript request")
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "create transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Transcript{}, errors.Errorf("create transcript: %s", responseError(resp))
	}
	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Transcript{}, errors.Wrap(err, "decode transcript response")
	}
	return out.toModel(), nil
}

// GetTranscript fetches the current state of a transcription job.
func (c *Client) GetTranscript(ctx context.Context, id string) (model.Transcript, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+id, nil)
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "build poll request")
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Transcript{}, errors.Wrap(err, "poll transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Transcript{}, errors.Errorf("poll transcript: %s", responseError(resp))
	}
	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Transcript{}, errors.Wrap(err, "decode poll response")
	}
	return out.toModel(), nil
}

// responseError summarizes a non-success provider response, preferring the
// error field the API puts in its JSON bodies.
func responseError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Error)
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, msg)
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
