package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
	"github.com/thereayou/studyflow/internal/websocket"
)

type NoteStore interface {
	ListNotes(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error)
	CreateNote(ctx context.Context, note *models.Note) error
	UpdateNote(ctx context.Context, noteID, ownerID uuid.UUID, title, content string, at time.Time) (int64, error)
}

type NoteService struct {
	store     NoteStore
	publisher Publisher
	clock     Clock
}

func NewNoteService(store NoteStore, publisher Publisher, clock Clock) *NoteService {
	return &NoteService{store: store, publisher: publisherOrNop(publisher), clock: clockOrNow(clock)}
}

func (s *NoteService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	return s.store.ListNotes(ctx, ownerID)
}

func (s *NoteService) Create(ctx context.Context, ownerID uuid.UUID, title, content string) (*models.Note, error) {
	note := &models.Note{
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		UpdatedAt: s.clock().UTC(),
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	s.publisher.Publish(ownerID, websocket.TypeNoteSaved, map[string]uuid.UUID{"id": note.ID})
	return note, nil
}

// Update rewrites a note owned by ownerID. A note that does not exist or
// belongs to someone else is left alone and no error is returned, so callers
// cannot tell the two apart.
func (s *NoteService) Update(ctx context.Context, noteID, ownerID uuid.UUID, title, content string) error {
	n, err := s.store.UpdateNote(ctx, noteID, ownerID, title, content, s.clock().UTC())
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if n > 0 {
		s.publisher.Publish(ownerID, websocket.TypeNoteSaved, map[string]uuid.UUID{"id": noteID})
	}
	return nil
}
