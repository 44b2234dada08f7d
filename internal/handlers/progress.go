package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/studyflow/internal/handlers/dto"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/middleware"
	"github.com/thereayou/studyflow/internal/services"
)

type ProgressHandler struct {
	progress *services.ProgressService
	feedback *services.FeedbackService
	log      logging.Logger
}

func NewProgressHandler(progress *services.ProgressService, feedback *services.FeedbackService, log logging.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, feedback: feedback, log: log}
}

func (h *ProgressHandler) CompleteSession(c *gin.Context) {
	res, err := h.progress.CompleteSession(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ProgressHandler) ListGameProgress(c *gin.Context) {
	records, err := h.progress.ListGameProgress(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	resp := make([]dto.GameProgressResponse, 0, len(records))
	for i := range records {
		resp = append(resp, dto.NewGameProgressResponse(&records[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProgressHandler) RecordGameProgress(c *gin.Context) {
	var req dto.GameProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.progress.RecordGameProgress(c.Request.Context(), middleware.UserID(c), services.GameProgressReport{
		ActivityID:      req.ActivityID,
		ActivityTitle:   req.ActivityTitle,
		Score:           req.Score,
		PlayTimeSeconds: req.PlayTimeSeconds,
	})
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, success)
}

func (h *ProgressHandler) SubmitFeedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.feedback.Submit(c.Request.Context(), middleware.UserID(c), req.Subject, req.Message); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, success)
}
