package generator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/server/respond"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/generation"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

const maxDocumentBytes = 1 << 20

// Handler serves the generation service: a document in, a PDF out.
type Handler struct {
	Renderer generation.Generator
}

// NewHandler constructs a Handler.
func NewHandler(renderer generation.Generator) *Handler {
	return &Handler{Renderer: renderer}
}

// RegisterRoutes wires the generation service routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-resume", h.generate)
	rg.GET("/health", h.health)
}

func (h *Handler) health(c *gin.Context) {
	respond.OK(c, gin.H{"status": "healthy"})
}

func (h *Handler) generate(c *gin.Context) {
	var doc model.ResumeDocument
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxDocumentBytes))
	if err := dec.Decode(&doc); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_json", "request body must be a resume document", nil)
		return
	}

	data, err := h.Renderer.Generate(c.Request.Context(), doc)
	if err != nil {
		telemetry.Error("generate.failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		if errors.Is(err, render.ErrMissingName) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "render_failed", "Error generating PDF", nil)
		return
	}

	respond.Attachment(c, generation.FileName(doc.PersonalInfo.FullName), "application/pdf", data)
}
