package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"chatlens/internal/extract"
	"chatlens/internal/models"
)

// Hard content errors abort the request with a client error; the uploaded
// file is deleted first either way.
var (
	ErrImageUnreadable = errors.New("image could not be read")
	ErrVideoUnreadable = errors.New("video could not be read")
	ErrNoFrames        = errors.New("no frames could be extracted from video")
)

// DocumentReader extracts document text; failures degrade to placeholder
// text rather than errors.
type DocumentReader interface {
	Extract(ctx context.Context, path, originalName string) extract.Extraction
}

// FrameSampler produces base64 stills from a video.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath string) ([]models.Frame, error)
}

var documentExts = map[string]bool{
	".txt": true,
	".pdf": true,
}

var videoExts = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}

// Builder classifies an uploaded file by extension and converts it into a
// ContextPayload. The upload is deleted on every path — success, degraded
// result or hard failure; deletion failure is only logged.
type Builder struct {
	documents DocumentReader
	sampler   FrameSampler
}

func NewBuilder(documents DocumentReader, sampler FrameSampler) *Builder {
	return &Builder{documents: documents, sampler: sampler}
}

// Build converts the upload into a payload. Document extraction never
// fails the request; image and video failures do, with the sentinel errors
// above. Extensions allowed upstream but matched by no branch fall through
// with KindNone.
func (b *Builder) Build(ctx context.Context, upload models.UploadedFile) (models.ContextPayload, error) {
	defer func() {
		if err := os.Remove(upload.Path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove upload %s failed: %v", upload.Path, err)
		}
	}()

	ext := strings.ToLower(upload.Ext)
	switch {
	case documentExts[ext]:
		result := b.documents.Extract(ctx, upload.Path, upload.OriginalName)
		if result.Degraded {
			log.Printf("document %s degraded to placeholder", upload.OriginalName)
		}
		return models.ContextPayload{Kind: models.KindText, Text: result.Text}, nil

	case extract.ImageMIMEType(ext) != "":
		encoded, err := extract.EncodeImage(upload.Path)
		if err != nil {
			return models.ContextPayload{}, fmt.Errorf("%w: %v", ErrImageUnreadable, err)
		}
		mimeType := upload.MimeType
		if mimeType == "" {
			mimeType = extract.ImageMIMEType(ext)
		}
		return models.ContextPayload{Kind: models.KindImage, Image: encoded, MimeType: mimeType}, nil

	case videoExts[ext]:
		frames, err := b.sampler.Sample(ctx, upload.Path)
		if err != nil {
			return models.ContextPayload{}, fmt.Errorf("%w: %v", ErrVideoUnreadable, err)
		}
		if len(frames) == 0 {
			return models.ContextPayload{}, ErrNoFrames
		}
		return models.ContextPayload{Kind: models.KindVideoFrames, Frames: frames}, nil

	default:
		return models.ContextPayload{Kind: models.KindNone}, nil
	}
}
