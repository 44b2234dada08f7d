package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/studyflow/internal/database"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/models"
	"github.com/thereayou/studyflow/internal/websocket"
	"github.com/thereayou/studyflow/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Connect(database.Options{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newAuthService(t *testing.T, db *database.Database) (*AuthService, *auth.JWTManager) {
	t.Helper()
	jwtMgr := auth.NewJWTManager("test-secret", 0)
	svc, err := NewAuthService(db, jwtMgr, bcrypt.MinCost, logging.Nop())
	require.NoError(t, err)
	return svc, jwtMgr
}

func seedUser(t *testing.T, db *database.Database, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, db.SaveUser(context.Background(), u))
	return u
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type published struct {
	userID    uuid.UUID
	eventType websocket.EventType
	data      interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(userID uuid.UUID, eventType websocket.EventType, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{userID: userID, eventType: eventType, data: data})
}

func (p *recordingPublisher) Events() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}
