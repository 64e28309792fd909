package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/coursetrans/coursetrans/internal/errors"
	"github.com/coursetrans/coursetrans/internal/model"
	"github.com/coursetrans/coursetrans/internal/repository"
	"github.com/coursetrans/coursetrans/internal/service/translation"
)

// Handler handles HTTP requests
type Handler struct {
	jobs         translation.JobService
	progress     translation.ProgressService
	translations repository.TranslationRepository
}

// NewHandler creates a new handler instance
func NewHandler(jobs translation.JobService, progress translation.ProgressService, translations repository.TranslationRepository) *Handler {
	return &Handler{
		jobs:         jobs,
		progress:     progress,
		translations: translations,
	}
}

// CreateJobRequest is the payload for POST /api/v1/jobs
type CreateJobRequest struct {
	CourseID    int64                 `json:"course_id" binding:"required"`
	UserID      int64                 `json:"user_id"`
	SourceLang  string                `json:"source_lang"`
	TargetLangs []string              `json:"target_langs" binding:"required"`
	BatchSize   int                   `json:"batch_size"`
	Glossary    []model.GlossaryEntry `json:"glossary"`
}

// ItemProgressRequest is the payload for POST /api/v1/items/progress
type ItemProgressRequest struct {
	Lang string   `json:"lang" binding:"required"`
	IDs  []string `json:"ids" binding:"required"`
}

// CreateJob handles POST /api/v1/jobs
func (h *Handler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	job, err := h.jobs.Enqueue(c.Request.Context(), req.CourseID, req.UserID, &model.JobOptions{
		SourceLang:  req.SourceLang,
		TargetLangs: req.TargetLangs,
		BatchSize:   req.BatchSize,
		Glossary:    req.Glossary,
	})
	if err != nil {
		log.Printf("Failed to enqueue job for course %d: %v", req.CourseID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":    job.ID,
		"course_id": job.CourseID,
		"status":    job.Status,
		"total":     job.Total,
	})
}

// GetJob handles GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	progress, err := h.progress.JobProgress(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// ItemProgress handles POST /api/v1/items/progress
func (h *Handler) ItemProgress(c *gin.Context) {
	var req ItemProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	items, err := h.progress.ItemProgress(c.Request.Context(), req.Lang, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetBundle handles GET /api/v1/bundles/:lang
func (h *Handler) GetBundle(c *gin.Context) {
	lang := c.Param("lang")
	if lang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language is required"})
		return
	}

	bundle, err := h.translations.Bundle(c.Request.Context(), lang)
	if err != nil {
		log.Printf("Failed to build bundle for %s: %v", lang, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lang":         lang,
		"translations": bundle,
	})
}

// respondError maps application error codes onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		status = http.StatusNotFound
	case apperrors.IsCode(err, apperrors.CodeInvalidArg):
		status = http.StatusBadRequest
	case apperrors.IsCode(err, apperrors.CodeConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
