package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultScore is stored when a progress report carries no score.
const DefaultScore = "N/A"

// GameProgress accumulates play time for one (user, activity) pair.
type GameProgress struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_game_progress_owner_activity"`
	ActivityID           string    `gorm:"not null;uniqueIndex:idx_game_progress_owner_activity"`
	ActivityTitle        string    `gorm:"not null"`
	Score                string    `gorm:"not null"`
	TotalPlayTimeSeconds int64     `gorm:"not null"`
	UpdatedAt            time.Time
}

func (GameProgress) TableName() string {
	return "game_progress"
}

func (g *GameProgress) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
