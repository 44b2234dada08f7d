package services

import (
	"errors"

	"github.com/thereayou/studyflow/internal/database"
)

var (
	ErrDuplicateUsername  = database.ErrDuplicateUsername
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
)
