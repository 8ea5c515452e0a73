package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chatlens/internal/ingest"
	"chatlens/internal/models"
	"chatlens/internal/storage"
)

// ContextBuilder turns an uploaded file into a context payload, deleting
// the file on every path.
type ContextBuilder interface {
	Build(ctx context.Context, upload models.UploadedFile) (models.ContextPayload, error)
}

// Replier issues the model request; every failure mode resolves to a
// reply string.
type Replier interface {
	Reply(ctx context.Context, message string, payload models.ContextPayload) string
	Available() bool
}

const maxUploadBytes = 50 << 20 // 50 MB

var allowedExts = map[string]bool{
	".txt": true, ".pdf": true,
	".png": true, ".jpg": true, ".jpeg": true,
	".mp4": true, ".mov": true, ".avi": true,
}

// Handler wires HTTP routes to the ingestion pipeline and the AI gateway.
type Handler struct {
	builder   ContextBuilder
	gateway   Replier
	db        *sql.DB
	uploadDir string
}

// NewHandler constructs a Handler instance. db may be nil; chat logging is
// then skipped.
func NewHandler(builder ContextBuilder, gw Replier, db *sql.DB, uploadDir string) *Handler {
	return &Handler{
		builder:   builder,
		gateway:   gw,
		db:        db,
		uploadDir: uploadDir,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/chat", h.chat)
	api.GET("/health", h.health)
}

// NewRouter builds the engine with logging and a recovery boundary that
// reports unexpected faults as a 500 with the underlying description.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"message": fmt.Sprint(recovered),
		})
	}))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"ai_ready": h.gateway.Available(),
	})
}

func (h *Handler) chat(c *gin.Context) {
	message := strings.TrimSpace(c.PostForm("message"))
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	payload := models.ContextPayload{Kind: models.KindNone}
	var fileName string
	if file, err := c.FormFile("file"); err == nil {
		upload, status, uploadErr := h.saveUpload(c, file)
		if uploadErr != nil {
			c.JSON(status, gin.H{"error": uploadErr.Error()})
			return
		}
		fileName = upload.OriginalName

		payload, err = h.builder.Build(c.Request.Context(), upload)
		if err != nil {
			status, label := classifyBuildError(err)
			c.JSON(status, gin.H{"error": label, "message": err.Error()})
			return
		}
	}

	reply := h.gateway.Reply(c.Request.Context(), message, payload)
	h.recordChat(c.Request.Context(), message, reply, payload, fileName)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// saveUpload validates the multipart file and stores it under a
// collision-free name (timestamp plus random suffix).
func (h *Handler) saveUpload(c *gin.Context, file *multipart.FileHeader) (models.UploadedFile, int, error) {
	originalName := filepath.Base(file.Filename)
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return models.UploadedFile{}, http.StatusBadRequest, fmt.Errorf("unsupported file type %s", ext)
	}
	if file.Size > maxUploadBytes {
		return models.UploadedFile{}, http.StatusRequestEntityTooLarge, errors.New("file too large")
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return models.UploadedFile{}, http.StatusInternalServerError, fmt.Errorf("create upload directory: %w", err)
	}
	storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString()[:8], ext)
	destPath := filepath.Join(h.uploadDir, storedName)
	if err := c.SaveUploadedFile(file, destPath); err != nil {
		return models.UploadedFile{}, http.StatusInternalServerError, fmt.Errorf("save file: %w", err)
	}

	mimeType := ""
	if mtype, err := mimetype.DetectFile(destPath); err == nil {
		mimeType = mtype.String()
	}
	return models.UploadedFile{
		Path:         destPath,
		OriginalName: originalName,
		Ext:          ext,
		MimeType:     mimeType,
		Size:         file.Size,
	}, 0, nil
}

func classifyBuildError(err error) (int, string) {
	switch {
	case errors.Is(err, ingest.ErrImageUnreadable):
		return http.StatusBadRequest, "unreadable image"
	case errors.Is(err, ingest.ErrVideoUnreadable), errors.Is(err, ingest.ErrNoFrames):
		return http.StatusBadRequest, "unreadable video"
	default:
		return http.StatusInternalServerError, "file processing failed"
	}
}

func (h *Handler) recordChat(ctx context.Context, message, reply string, payload models.ContextPayload, fileName string) {
	if h.db == nil {
		return
	}
	_, err := storage.AppendChatLog(ctx, h.db, models.ChatLog{
		Message:     message,
		Reply:       reply,
		ContextKind: string(payload.Kind),
		FileName:    fileName,
	})
	if err != nil {
		log.Printf("append chat log failed: %v", err)
	}
}
