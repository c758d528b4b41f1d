package server

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"storyteller/model"
	"storyteller/tts"
)

// maxUploadBytes caps multipart bodies; a few seconds of browser audio
// stays far below this.
const maxUploadBytes = 16 << 20

// Transcriber turns an uploaded clip into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, clip model.AudioClip) (string, error)
}

// StoryResolver picks the story to narrate for a transcript.
type StoryResolver interface {
	Resolve(ctx context.Context, transcript string) string
}

// Narrator synthesizes narration audio for a story.
type Narrator interface {
	Synthesize(ctx context.Context, text string) (tts.Result, error)
}

// Server wires the HTTP surface to the pipeline stages.
type Server struct {
	app      *fiber.App
	uploads  Transcriber
	stories  StoryResolver
	narrator Narrator
	logger   *log.Logger
	tmpDir   string
}

// New assembles the fiber application around the three pipeline stages.
func New(uploads Transcriber, stories StoryResolver, narrator Narrator, logger *log.Logger) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: maxUploadBytes,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	s := &Server{
		app:      app,
		uploads:  uploads,
		stories:  stories,
		narrator: narrator,
		logger:   logger,
		tmpDir:   os.TempDir(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Post("/upload", s.handleUpload)
	api.Post("/generate", s.handleGenerate)

	s.app.Static("/", "./static")
}

// App exposes the fiber application for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until the process exits.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}
