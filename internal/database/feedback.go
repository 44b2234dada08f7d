package database

import (
	"context"

	"github.com/thereayou/studyflow/internal/models"
)

func (d *Database) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	return d.db.WithContext(ctx).Create(fb).Error
}
