package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
)

// ListNotes returns the owner's notes, most recently updated first.
func (d *Database) ListNotes(ctx context.Context, ownerID uuid.UUID) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	err := d.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&notes).Error
	return notes, err
}

func (d *Database) CreateNote(ctx context.Context, note *models.Note) error {
	return d.db.WithContext(ctx).Create(note).Error
}

// UpdateNote rewrites title and content of a note the owner holds. It
// reports how many rows changed; zero means unknown id or another owner.
func (d *Database) UpdateNote(ctx context.Context, noteID, ownerID uuid.UUID, title, content string, at time.Time) (int64, error) {
	res := d.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ? AND user_id = ?", noteID, ownerID).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}
