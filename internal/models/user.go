package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Username       string          `gorm:"uniqueIndex;not null"`
	PasswordHash   string          `gorm:"not null"`
	Streak         int             `gorm:"not null"`
	DailyGoalCount int             `gorm:"not null"`
	LastActive     *datatypes.Date `gorm:"type:date"`
	CreatedAt      time.Time

	Notes        []Note         `gorm:"foreignKey:UserID"`
	GameProgress []GameProgress `gorm:"foreignKey:UserID"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
