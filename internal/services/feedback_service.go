package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/models"
)

type FeedbackStore interface {
	SaveFeedback(ctx context.Context, fb *models.Feedback) error
}

type FeedbackService struct {
	store FeedbackStore
	clock Clock
	log   logging.Logger
}

func NewFeedbackService(store FeedbackStore, clock Clock, log logging.Logger) *FeedbackService {
	return &FeedbackService{store: store, clock: clockOrNow(clock), log: log}
}

func (s *FeedbackService) Submit(ctx context.Context, ownerID uuid.UUID, subject, message string) error {
	fb := &models.Feedback{
		UserID:    ownerID,
		Subject:   subject,
		Message:   message,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.SaveFeedback(ctx, fb); err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	s.log.Info(ctx, "feedback received", "user_id", ownerID, "subject", subject)
	return nil
}
