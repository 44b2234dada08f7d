package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/handlers/dto"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/middleware"
	"github.com/thereayou/studyflow/internal/services"
)

type NoteHandler struct {
	notes *services.NoteService
	log   logging.Logger
}

func NewNoteHandler(notes *services.NoteService, log logging.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, log: log}
}

func (h *NoteHandler) List(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, h.log, err)
		return
	}

	resp := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		resp = append(resp, dto.NewNoteResponse(&notes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NoteHandler) Create(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	note, err := h.notes.Create(c.Request.Context(), middleware.UserID(c), req.Title, req.Content)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewNoteResponse(note))
}

// Update always answers success: an id that is unknown, malformed or owned
// by someone else is indistinguishable from a real update.
func (h *NoteHandler) Update(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, success)
		return
	}

	if err := h.notes.Update(c.Request.Context(), noteID, middleware.UserID(c), req.Title, req.Content); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, success)
}
