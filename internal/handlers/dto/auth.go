package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// UserInfo is the public view of a user; the password hash never leaves
// the server.
type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Streak         int       `json:"streak"`
	DailyGoalCount int       `json:"dailyGoalCount"`
	LastActive     *string   `json:"lastActive"`
}

func NewUserInfo(u *models.User) UserInfo {
	info := UserInfo{
		ID:             u.ID,
		Username:       u.Username,
		Streak:         u.Streak,
		DailyGoalCount: u.DailyGoalCount,
	}
	if u.LastActive != nil {
		s := time.Time(*u.LastActive).Format(time.DateOnly)
		info.LastActive = &s
	}
	return info
}
