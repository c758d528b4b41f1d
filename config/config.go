package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultPort     = 8000
	defaultVoiceID  = "JBFqnCBsd6RMkjVDRZzb"
	defaultStoryAPI = "https://shortstories-api.onrender.com"
)

// Config holds every runtime setting. It is built once at process entry and
// handed to the components that need it; nothing reads the environment after
// Load returns.
type Config struct {
	Port int

	// AssemblyAIKey authenticates against the transcription provider.
	AssemblyAIKey string
	// OpenAIKey is reserved for a future integration. It is loaded and
	// reported by Warnings but nothing consumes it.
	OpenAIKey string
	// ElevenLabsKey authenticates against the speech-synthesis provider.
	ElevenLabsKey string

	VoiceID   string
	Streaming bool

	StoryAPIURL      string
	StoryLibraryFile string
}

// Load reads the process environment into a Config. Missing credentials do
// not fail the load; they surface through Warnings so the server still
// starts and only the endpoints backed by the missing key fail.
func Load() (*Config, error) {
	port, err := envOrDefaultInt("PORT", defaultPort)
	if err != nil {
		return nil, err
	}
	streaming, err := envOrDefaultBool("ELEVENLABS_STREAMING", false)
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:             port,
		AssemblyAIKey:    os.Getenv("ASSEMBLYAI_API_KEY"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		ElevenLabsKey:    os.Getenv("ELEVENLABS_API_KEY"),
		VoiceID:          envOrDefault("ELEVENLABS_VOICE_ID", defaultVoiceID),
		Streaming:        streaming,
		StoryAPIURL:      envOrDefault("STORY_API_URL", defaultStoryAPI),
		StoryLibraryFile: os.Getenv("STORY_LIBRARY_FILE"),
	}, nil
}

// Warnings lists the credentials that were not provided.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.AssemblyAIKey == "" {
		warnings = append(warnings, "ASSEMBLYAI_API_KEY is not set; /api/upload will fail")
	}
	if c.OpenAIKey == "" {
		warnings = append(warnings, "OPENAI_API_KEY is not set")
	}
	if c.ElevenLabsKey == "" {
		warnings = append(warnings, "ELEVENLABS_API_KEY is not set; /api/generate will fail")
	}
	return warnings
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func envOrDefaultBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
