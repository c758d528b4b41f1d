package main

import (
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"storyteller/config"
	"storyteller/pipeline"
	"storyteller/server"
	"storyteller/story"
	"storyteller/stt"
	"storyteller/tts"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, falling back to environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)
	for _, w := range cfg.Warnings() {
		logger.Printf("warning: %s", w)
	}

	library := story.DefaultLibrary()
	if cfg.StoryLibraryFile != "" {
		library, err = story.LoadLibrary(cfg.StoryLibraryFile)
		if err != nil {
			logger.Fatalf("load story library: %v", err)
		}
	}

	transcriber := stt.NewClient(cfg.AssemblyAIKey, logger)
	uploads := pipeline.New(transcriber, logger, pipeline.Config{})

	corpus := story.NewCorpusClient(cfg.StoryAPIURL)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	resolver := story.NewResolver(corpus, library, rng, logger)

	voice := tts.DefaultConfig(cfg.VoiceID)
	voice.Streaming = cfg.Streaming
	narrator := tts.NewClient(cfg.ElevenLabsKey, voice, logger)

	srv := server.New(uploads, resolver, narrator, logger)
	logger.Printf("listening on %s", cfg.Addr())
	if err := srv.Listen(cfg.Addr()); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
