package dto

import (
	"time"

	"github.com/thereayou/studyflow/internal/models"
)

type GameProgressRequest struct {
	ActivityID      string `json:"activityId" binding:"required,max=100"`
	ActivityTitle   string `json:"activityTitle" binding:"max=200"`
	Score           string `json:"score" binding:"max=100"`
	PlayTimeSeconds int64  `json:"playTimeSeconds" binding:"min=0"`
}

type GameProgressResponse struct {
	ActivityID           string    `json:"activityId"`
	ActivityTitle        string    `json:"activityTitle"`
	Score                string    `json:"score"`
	TotalPlayTimeSeconds int64     `json:"totalPlayTimeSeconds"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func NewGameProgressResponse(g *models.GameProgress) GameProgressResponse {
	return GameProgressResponse{
		ActivityID:           g.ActivityID,
		ActivityTitle:        g.ActivityTitle,
		Score:                g.Score,
		TotalPlayTimeSeconds: g.TotalPlayTimeSeconds,
		UpdatedAt:            g.UpdatedAt,
	}
}

type FeedbackRequest struct {
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}
