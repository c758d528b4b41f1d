package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"storyteller/model"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModelID = "eleven_multilingual_v2"
	defaultFormat  = "mp3_44100_128"
)

// Config fixes the voice identity and delivery settings applied to every
// synthesis request.
type Config struct {
	VoiceID string
	ModelID string
	// OutputFormat carries codec, sample rate and bitrate, e.g. mp3_44100_128.
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
	Style           float64
	Speed           float64
	// Streaming switches the client to the raw-byte endpoint.
	Streaming bool
}

// DefaultConfig returns the production voice settings for voiceID.
func DefaultConfig(voiceID string) Config {
	return Config{
		VoiceID:         voiceID,
		ModelID:         defaultModelID,
		OutputFormat:    defaultFormat,
		Stability:       0.75,
		SimilarityBoost: 0.7,
		Style:           0.0,
		Speed:           1.0,
	}
}

// Client calls an ElevenLabs-compatible text-to-speech API.
type Client struct {
	apiKey     string
	baseURL    string
	cfg        Config
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient returns a Client against the production API.
func NewClient(apiKey string, cfg Config, logger *log.Logger) *Client {
	return NewClientWithURL(apiKey, defaultBaseURL, cfg, logger)
}

// NewClientWithURL returns a Client against a caller-supplied base URL.
// Tests point this at a local server.
func NewClientWithURL(apiKey, baseURL string, cfg Config, logger *log.Logger) *Client {
	if cfg.ModelID == "" {
		cfg.ModelID = defaultModelID
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = defaultFormat
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
}

type synthesisResponse struct {
	AudioBase64 string `json:"audio_base64"`
	AudioURL    string `json:"audio_url"`
}

// Synthesize narrates text with the fixed voice configuration. Streaming
// deployments pass the raw audio body through; otherwise the provider's
// JSON decodes to a hosted URL or an inline base64 payload.
func (c *Client) Synthesize(ctx context.Context, text string) (Result, error) {
	c.logger.Printf("synthesizing %d characters with voice %s", len(text), c.cfg.VoiceID)
	if c.cfg.Streaming {
		return c.stream(ctx, text)
	}
	return c.inline(ctx, text)
}

func (c *Client) inline(ctx context.Context, text string) (Result, error) {
	req, err := c.newRequest(ctx, text, "/with-timestamps")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call speech api")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, narrationError(resp)
	}
	var out synthesisResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(err, "decode speech response")
	}
	switch {
	case out.AudioURL != "" && out.AudioBase64 != "":
		return nil, errors.New("speech response carries both a url and inline audio")
	case out.AudioURL != "":
		return URLAudio{URL: out.AudioURL}, nil
	case out.AudioBase64 != "":
		return InlineAudio{Base64: out.AudioBase64}, nil
	default:
		return nil, errors.New("speech response carries no audio")
	}
}

func (c *Client) stream(ctx context.Context, text string) (Result, error) {
	req, err := c.newRequest(ctx, text, "/stream")
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "call speech api")
	}
	if resp.StatusCode != http.StatusOK {
		perr := narrationError(resp)
		resp.Body.Close()
		return nil, perr
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return StreamAudio{ContentType: contentType, Body: resp.Body}, nil
}

func (c *Client) newRequest(ctx context.Context, text, suffix string) (*http.Request, error) {
	endpoint, err := url.Parse(fmt.Sprintf("%s/v1/text-to-speech/%s%s", c.baseURL, c.cfg.VoiceID, suffix))
	if err != nil {
		return nil, errors.Wrap(err, "build synthesis url")
	}
	q := endpoint.Query()
	q.Set("output_format", c.cfg.OutputFormat)
	endpoint.RawQuery = q.Encode()

	payload, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: c.cfg.ModelID,
		VoiceSettings: voiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
			Style:           c.cfg.Style,
			Speed:           c.cfg.Speed,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal synthesis payload")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build synthesis request")
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// narrationError converts a non-success provider response into the
// narration failure surfaced to the caller, keeping the provider's message.
func narrationError(resp *http.Response) *model.PipelineError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var out struct {
		Detail struct {
			Message string `json:"message"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &out); err == nil && out.Detail.Message != "" {
		msg = out.Detail.Message
	}
	if msg == "" {
		msg = resp.Status
	}
	return model.NewError(model.CodeNarration, fmt.Sprintf("speech provider returned status %d: %s", resp.StatusCode, msg))
}
