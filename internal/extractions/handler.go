package extractions

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"policy-backend/internal/pipeline"
	"policy-backend/internal/shared/server/respond"
	"policy-backend/internal/shared/telemetry"
)

// multipart framing on top of the document itself
const formOverhead = 1 << 20

// Handler wires HTTP handlers to the extraction pipeline.
type Handler struct {
	Pipe           *pipeline.Pipeline
	Repo           Repo
	Model          string
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(pipe *pipeline.Pipeline, repo Repo, model string, maxUploadBytes int64) *Handler {
	return &Handler{Pipe: pipe, Repo: repo, Model: model, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches extraction routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extract)
	rg.POST("/extract-text", h.extractText)
	rg.GET("/extractions", h.listExtractions)
}

func (h *Handler) extract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+formOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	start := time.Now()
	rec, err := h.Pipe.Process(c.Request.Context(), data, fileHeader.Filename)
	duration := time.Since(start)

	if err != nil {
		status, code, message := statusFor(err)
		h.audit(c, fileHeader.Filename, int64(len(data)), StatusFailed, code, duration)
		respond.Error(c, status, code, message, nil)
		return
	}

	h.audit(c, fileHeader.Filename, int64(len(data)), StatusCompleted, "", duration)
	respond.JSON(c, http.StatusOK, rec)
}

type extractTextRequest struct {
	Text string `json:"text"`
}

func (h *Handler) extractText(c *gin.Context) {
	var req extractTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Pipe.ProcessText(c.Request.Context(), req.Text)
	if err != nil {
		status, code, message := statusFor(err)
		respond.Error(c, status, code, message, nil)
		return
	}

	respond.JSON(c, http.StatusOK, rec)
}

func (h *Handler) listExtractions(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 100 {
		limit = 100
	}

	records, err := h.Repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list extractions", nil)
		return
	}
	if records == nil {
		records = []Extraction{}
	}

	respond.JSON(c, http.StatusOK, records)
}

// audit records request metadata best-effort; a storage failure never
// affects the client response.
func (h *Handler) audit(c *gin.Context, fileName string, sizeBytes int64, status, errorCode string, duration time.Duration) {
	if h.Repo == nil {
		return
	}

	extraction := Extraction{
		ID:         uuid.NewString(),
		FileName:   fileName,
		Extension:  strings.ToLower(filepath.Ext(fileName)),
		SizeBytes:  sizeBytes,
		Status:     status,
		ErrorCode:  errorCode,
		DurationMs: duration.Milliseconds(),
		Model:      h.Model,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Repo.Create(c.Request.Context(), extraction); err != nil {
		telemetry.Warn("extractions.audit_failed", map[string]any{
			"file_name": fileName,
			"err":       err.Error(),
		})
	}
}

func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, pipeline.ErrInvalidInput):
		return http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, pipeline.ErrNoExtractableText):
		return http.StatusUnprocessableEntity, "no_extractable_text", "no text could be extracted from the document"
	case errors.Is(err, pipeline.ErrUpstreamFailure):
		return http.StatusBadGateway, "upstream_error", "a document processing provider failed"
	case errors.Is(err, pipeline.ErrMalformedOutput):
		return http.StatusInternalServerError, "malformed_output", "extraction produced unparseable output"
	default:
		return http.StatusInternalServerError, "internal_error", "failed to process document"
	}
}
