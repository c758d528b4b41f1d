package server

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storyteller/model"
	"storyteller/tts"
)

type generateRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleUpload takes the recording out of the multipart form, parks it
// under a distinct temp path, and runs it through transcription.
func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		fh = firstFile(c)
	}
	if fh == nil || fh.Size == 0 {
		return s.fail(c, model.NewError(model.CodeNoFile, "no audio file in request"))
	}

	path := filepath.Join(s.tmpDir, fmt.Sprintf("upload-%s%s", uuid.NewString(), filepath.Ext(fh.Filename)))
	if err := c.SaveFile(fh, path); err != nil {
		// A failed save can leave a partial file behind.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Printf("remove temp file %s: %v", path, rmErr)
		}
		return s.fail(c, errors.Wrap(err, "save upload"))
	}
	clip := model.AudioClip{
		Path: path,
		MIME: fh.Header.Get("Content-Type"),
		Size: fh.Size,
	}
	s.logger.Printf("upload received: %s (%d bytes)", fh.Filename, fh.Size)

	text, err := s.uploads.Transcribe(c.UserContext(), clip)
	if err != nil {
		return s.fail(c, err)
	}
	s.logger.Printf("transcribed %d characters", len(text))
	return c.JSON(fiber.Map{"transcript": text})
}

// handleGenerate resolves the story for the posted transcript and relays
// whichever audio shape the synthesis provider returns.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return s.fail(c, errors.Wrap(err, "parse request body"))
	}

	storyText := s.stories.Resolve(c.UserContext(), req.Text)
	s.logger.Printf("resolved a %d character story for a %d character transcript", len(storyText), len(req.Text))

	result, err := s.narrator.Synthesize(c.UserContext(), storyText)
	if err != nil {
		return s.fail(c, err)
	}

	switch audio := result.(type) {
	case tts.URLAudio:
		return c.JSON(fiber.Map{"story": storyText, "audioUrl": audio.URL})
	case tts.InlineAudio:
		return c.JSON(fiber.Map{"story": storyText, "base64_audio": audio.Base64})
	case tts.StreamAudio:
		c.Set(fiber.HeaderContentType, audio.ContentType)
		return c.SendStream(audio.Body)
	default:
		return s.fail(c, errors.Errorf("unsupported narration result %T", result))
	}
}

// firstFile falls back to the first file field of the form when the
// expected field name is absent; the page posts a single binary part.
func firstFile(c *fiber.Ctx) *multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	for _, headers := range form.File {
		if len(headers) > 0 {
			return headers[0]
		}
	}
	return nil
}

// fail logs the failure and renders the uniform error envelope. Anything
// not already classified becomes an internal error.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	perr := classify(err)
	s.logger.Printf("%s: %s", c.Path(), perr)

	detail := perr.Detail
	if perr.Err != nil {
		detail = fmt.Sprintf("%s: %v", perr.Detail, perr.Err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":  string(perr.Code),
		"detail": detail,
	})
}

func classify(err error) *model.PipelineError {
	var perr *model.PipelineError
	if errors.As(err, &perr) {
		return perr
	}
	return model.WrapError(model.CodeInternal, "unexpected failure", err)
}
