package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/database"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/models"
	"github.com/thereayou/studyflow/internal/websocket"
)

type ProgressStore interface {
	WithLockedUser(ctx context.Context, userID uuid.UUID, fn func(tx *database.Database, user *models.User) error) error
	UpsertGameProgress(ctx context.Context, rec *models.GameProgress) error
	ListGameProgress(ctx context.Context, ownerID uuid.UUID) ([]models.GameProgress, error)
}

type ProgressService struct {
	store     ProgressStore
	publisher Publisher
	clock     Clock
	loc       *time.Location
	log       logging.Logger
}

func NewProgressService(store ProgressStore, publisher Publisher, clock Clock, loc *time.Location, log logging.Logger) *ProgressService {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressService{
		store:     store,
		publisher: publisherOrNop(publisher),
		clock:     clockOrNow(clock),
		loc:       loc,
		log:       log,
	}
}

type SessionResult struct {
	Streak         int `json:"streak"`
	DailyGoalCount int `json:"dailyGoalCount"`
}

// CompleteSession records one finished focus session for the user. The
// read, the transition and the write happen under one row lock.
func (s *ProgressService) CompleteSession(ctx context.Context, userID uuid.UUID) (*SessionResult, error) {
	today := DateOf(s.clock().In(s.loc))

	var result SessionResult
	err := s.store.WithLockedUser(ctx, userID, func(tx *database.Database, user *models.User) error {
		cur := Stats{Streak: user.Streak, DailyGoalCount: user.DailyGoalCount}
		if user.LastActive != nil {
			last := time.Time(*user.LastActive)
			cur.LastActive = &last
		}

		next := NextStats(cur, today)
		if err := tx.UpdateProgress(ctx, userID, next.Streak, next.DailyGoalCount, *next.LastActive); err != nil {
			return err
		}
		result = SessionResult{Streak: next.Streak, DailyGoalCount: next.DailyGoalCount}
		return nil
	})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("complete session: %w", err)
	}

	s.log.Debug(ctx, "session completed", "user_id", userID, "streak", result.Streak, "daily_goal_count", result.DailyGoalCount)
	s.publisher.Publish(userID, websocket.TypeStatsUpdated, result)
	return &result, nil
}

type GameProgressReport struct {
	ActivityID      string
	ActivityTitle   string
	Score           string
	PlayTimeSeconds int64
}

// RecordGameProgress adds the reported play time to the (user, activity)
// record, creating it on first report. Title and score are replaced.
func (s *ProgressService) RecordGameProgress(ctx context.Context, ownerID uuid.UUID, report GameProgressReport) error {
	activityID := strings.TrimSpace(report.ActivityID)
	if activityID == "" {
		return fmt.Errorf("%w: activityId is required", ErrValidation)
	}
	if report.PlayTimeSeconds < 0 {
		return fmt.Errorf("%w: playTimeSeconds must not be negative", ErrValidation)
	}

	score := report.Score
	if score == "" {
		score = models.DefaultScore
	}

	rec := &models.GameProgress{
		UserID:               ownerID,
		ActivityID:           activityID,
		ActivityTitle:        report.ActivityTitle,
		Score:                score,
		TotalPlayTimeSeconds: report.PlayTimeSeconds,
		UpdatedAt:            s.clock().UTC(),
	}
	if err := s.store.UpsertGameProgress(ctx, rec); err != nil {
		return fmt.Errorf("upsert game progress: %w", err)
	}

	s.publisher.Publish(ownerID, websocket.TypeGameProgressUpdated, map[string]string{"activityId": activityID})
	return nil
}

func (s *ProgressService) ListGameProgress(ctx context.Context, ownerID uuid.UUID) ([]models.GameProgress, error) {
	return s.store.ListGameProgress(ctx, ownerID)
}
