package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertGameProgress inserts the record or, when (user_id, activity_id)
// already exists, replaces title and score and adds the play time to the
// stored total. It is a single statement, so concurrent reports for the same
// pair never lose an increment.
func (d *Database) UpsertGameProgress(ctx context.Context, rec *models.GameProgress) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"activity_title":          gorm.Expr("excluded.activity_title"),
				"score":                   gorm.Expr("excluded.score"),
				"total_play_time_seconds": gorm.Expr("game_progress.total_play_time_seconds + excluded.total_play_time_seconds"),
				"updated_at":              gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(rec).Error
}

func (d *Database) ListGameProgress(ctx context.Context, ownerID uuid.UUID) ([]models.GameProgress, error) {
	records := make([]models.GameProgress, 0)
	err := d.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&records).Error
	return records, err
}

func (d *Database) GetGameProgress(ctx context.Context, ownerID uuid.UUID, activityID string) (*models.GameProgress, error) {
	var rec models.GameProgress
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND activity_id = ?", ownerID, activityID).
		First(&rec).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}
