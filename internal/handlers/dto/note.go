package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
)

type NoteRequest struct {
	Title   string `json:"title" binding:"max=200"`
	Content string `json:"content"`
}

type NoteResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewNoteResponse(n *models.Note) NoteResponse {
	return NoteResponse{ID: n.ID, Title: n.Title, Content: n.Content, UpdatedAt: n.UpdatedAt}
}
