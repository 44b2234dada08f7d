package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveUser inserts a new user. Username uniqueness is left to the unique
// index so concurrent registrations cannot both succeed.
func (d *Database) SaveUser(ctx context.Context, user *models.User) error {
	if err := d.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (d *Database) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateProgress writes streak, daily goal count and last active date in one
// statement.
func (d *Database) UpdateProgress(ctx context.Context, userID uuid.UUID, streak, dailyGoalCount int, lastActive time.Time) error {
	res := d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"streak":           streak,
			"daily_goal_count": dailyGoalCount,
			"last_active":      datatypes.Date(lastActive),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithLockedUser loads the user row under a write lock and runs fn in the
// same transaction. fn receives a Database bound to the transaction.
func (d *Database) WithLockedUser(ctx context.Context, userID uuid.UUID, fn func(tx *Database, user *models.User) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", userID).Error
		if err != nil {
			return translate(err)
		}
		return fn(NewDatabase(tx), &user)
	})
}
