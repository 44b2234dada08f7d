package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/studyflow/internal/database"
	"github.com/thereayou/studyflow/internal/handlers"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/revocation"
	"github.com/thereayou/studyflow/internal/services"
	"github.com/thereayou/studyflow/internal/websocket"
	"github.com/thereayou/studyflow/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	router *gin.Engine
	db     *database.Database
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logging.Nop()

	db, err := database.Connect(database.Options{Driver: "sqlite", DSN: "file::memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	jwtMgr := auth.NewJWTManager("test-secret", 0)
	revoked := revocation.NewMemoryStore()
	hub := websocket.NewHub(log)
	go hub.Run()
	t.Cleanup(hub.Stop)

	authSvc, err := services.NewAuthService(db, jwtMgr, bcrypt.MinCost, log)
	require.NoError(t, err)

	r := gin.New()
	APIEndpoints(r, routeDeps{
		JWTManager: jwtMgr,
		Revoked:    revoked,
		DB:         db,
		AuthH:      handlers.NewAuthHandler(authSvc, jwtMgr, revoked, time.Hour, log),
		NoteH:      handlers.NewNoteHandler(services.NewNoteService(db, hub, nil), log),
		ProgressH: handlers.NewProgressHandler(
			services.NewProgressService(db, hub, nil, time.UTC, log),
			services.NewFeedbackService(db, nil, log),
			log,
		),
		WSH: handlers.NewWebSocketHandler(hub, nil, log),
	})

	return &testApp{router: r, db: db}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type authBody struct {
	Token string `json:"token"`
	User  struct {
		ID             string  `json:"id"`
		Username       string  `json:"username"`
		Streak         int     `json:"streak"`
		DailyGoalCount int     `json:"dailyGoalCount"`
		LastActive     *string `json:"lastActive"`
	} `json:"user"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testApp) register(t *testing.T, username string) authBody {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": username, "password": "password1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authBody](t, w)
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	reg := app.register(t, "alice")
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Zero(t, reg.User.Streak)
	assert.Zero(t, reg.User.DailyGoalCount)
	assert.Nil(t, reg.User.LastActive)
	assert.NotContains(t, app.do(t, http.MethodGet, "/api/users/me", reg.Token, nil).Body.String(), "password")

	w := app.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"username": "alice", "password": "password2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"username already exists"}`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")

	w = app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[authBody](t, w)
	assert.Equal(t, reg.User.ID, login.User.ID)

	w = app.do(t, http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), reg.User.ID)
}

func TestRegister_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty body", nil},
		{"missing password", gin.H{"username": "alice"}},
		{"short username", gin.H{"username": "al", "password": "password1"}},
		{"short password", gin.H{"username": "alice", "password": "123"}},
		{"password over 72 bytes", gin.H{"username": "alice", "password": strings.Repeat("é", 40)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)
	// with the database gone any store access would surface as a 500
	require.NoError(t, app.db.Close())

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/notes"},
		{http.MethodPost, "/api/notes"},
		{http.MethodPut, "/api/notes/123"},
		{http.MethodPost, "/api/stats/complete-session"},
		{http.MethodPost, "/api/feedback"},
		{http.MethodGet, "/api/game-progress"},
		{http.MethodPost, "/api/game-progress"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/ws"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := app.do(t, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = app.do(t, rt.method, rt.path, "tampered.token.value", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

type noteBody struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func TestNotesFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")
	bob := app.register(t, "bob")

	w := app.do(t, http.MethodGet, "/api/notes", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/notes", alice.Token, gin.H{"title": "first", "content": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	first := decode[noteBody](t, w)
	assert.NotEmpty(t, first.ID)

	time.Sleep(5 * time.Millisecond)
	w = app.do(t, http.MethodPost, "/api/notes", alice.Token, gin.H{"title": "second", "content": "b"})
	require.Equal(t, http.StatusCreated, w.Code)

	notes := decode[[]noteBody](t, app.do(t, http.MethodGet, "/api/notes", alice.Token, nil))
	require.Len(t, notes, 2)
	assert.Equal(t, "second", notes[0].Title)

	time.Sleep(5 * time.Millisecond)
	w = app.do(t, http.MethodPut, "/api/notes/"+first.ID, alice.Token, gin.H{"title": "first v2", "content": "a2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	notes = decode[[]noteBody](t, app.do(t, http.MethodGet, "/api/notes", alice.Token, nil))
	require.Len(t, notes, 2)
	assert.Equal(t, "first v2", notes[0].Title)

	// bob cannot see or change alice's notes, and is told nothing about it
	notes = decode[[]noteBody](t, app.do(t, http.MethodGet, "/api/notes", bob.Token, nil))
	assert.Empty(t, notes)

	w = app.do(t, http.MethodPut, "/api/notes/"+first.ID, bob.Token, gin.H{"title": "bob was here", "content": ""})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = app.do(t, http.MethodPut, "/api/notes/not-a-uuid", bob.Token, gin.H{"title": "x"})
	require.Equal(t, http.StatusOK, w.Code)

	notes = decode[[]noteBody](t, app.do(t, http.MethodGet, "/api/notes", alice.Token, nil))
	assert.Equal(t, "first v2", notes[0].Title)
	assert.Equal(t, "a2", notes[0].Content)
}

func TestCompleteSession(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")

	w := app.do(t, http.MethodPost, "/api/stats/complete-session", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"streak":1,"dailyGoalCount":1}`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/stats/complete-session", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"streak":1,"dailyGoalCount":2}`, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/users/me", alice.Token, nil)
	assert.Contains(t, w.Body.String(), `"dailyGoalCount":2`)
	assert.Contains(t, w.Body.String(), time.Now().UTC().Format(time.DateOnly))
}

type progressBody struct {
	ActivityID           string `json:"activityId"`
	ActivityTitle        string `json:"activityTitle"`
	Score                string `json:"score"`
	TotalPlayTimeSeconds int64  `json:"totalPlayTimeSeconds"`
}

func TestGameProgressFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")
	bob := app.register(t, "bob")

	w := app.do(t, http.MethodPost, "/api/game-progress", alice.Token, gin.H{
		"activityId": "a", "activityTitle": "Game A", "playTimeSeconds": 30,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/game-progress", alice.Token, gin.H{
		"activityId": "a", "activityTitle": "Game A", "score": "L5", "playTimeSeconds": 20,
	})
	require.Equal(t, http.StatusOK, w.Code)

	records := decode[[]progressBody](t, app.do(t, http.MethodGet, "/api/game-progress", alice.Token, nil))
	require.Len(t, records, 1)
	assert.Equal(t, progressBody{ActivityID: "a", ActivityTitle: "Game A", Score: "L5", TotalPlayTimeSeconds: 50}, records[0])

	records = decode[[]progressBody](t, app.do(t, http.MethodGet, "/api/game-progress", bob.Token, nil))
	assert.Empty(t, records)

	w = app.do(t, http.MethodPost, "/api/game-progress", alice.Token, gin.H{"activityId": "a", "playTimeSeconds": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(t, http.MethodPost, "/api/game-progress", alice.Token, gin.H{"playTimeSeconds": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedback(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")

	w := app.do(t, http.MethodPost, "/api/feedback", alice.Token, gin.H{"subject": "idea", "message": "more games"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/feedback", alice.Token, gin.H{"subject": "empty"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")

	w := app.do(t, http.MethodPost, "/api/auth/logout", alice.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/notes", alice.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "alice", "password": "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	fresh := decode[authBody](t, w)

	w = app.do(t, http.MethodGet, "/api/notes", fresh.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.NoError(t, app.db.Close())
	w = app.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOriginChecker(t *testing.T) {
	assert.Nil(t, originChecker([]string{"*"}))

	check := originChecker([]string{"https://app.example"})
	req := httptest.NewRequest(http.MethodGet, "/api/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}
