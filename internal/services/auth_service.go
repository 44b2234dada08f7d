package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/thereayou/studyflow/internal/database"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt ignores anything past this many bytes and x/crypto refuses it.
const maxPasswordBytes = 72

type UserStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type TokenIssuer interface {
	Generate(userID, username string) (string, error)
}

type AuthResult struct {
	Token string
	User  *models.User
}

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	cost   int
	log    logging.Logger

	// compared against when the username is unknown so both paths cost
	// one bcrypt comparison
	dummyHash []byte
}

func NewAuthService(users UserStore, tokens TokenIssuer, bcryptCost int, log logging.Logger) (*AuthService, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte("studyflow-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		tokens:    tokens,
		cost:      bcryptCost,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Register creates the user and signs a token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("save user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login checks the credentials and signs a fresh token. Unknown users and
// wrong passwords yield the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("find user: %w", err)
		}
		bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID.String(), user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyPassword reports whether raw matches the bcrypt hash.
func VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
