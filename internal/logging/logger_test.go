package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew_TextLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "text")
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSONWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "json").With("component", "test")

	log.Debug(context.Background(), "hello", "n", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "test", line["component"])
	assert.Equal(t, "DEBUG", line["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(New(&buf, "debug", "text"), gormlogger.Warn)
	ctx := context.Background()
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), fc, nil)
	assert.Empty(t, buf.String(), "fast queries are not logged at warn")

	gl.Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "not found is not an error")

	gl.Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	assert.Contains(t, buf.String(), "slow query")

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), fc, nil)
	assert.Empty(t, strings.TrimSpace(buf.String()))
}

func TestGormLogger_ParamsFilterHidesValues(t *testing.T) {
	gl := NewGormLogger(Nop(), gormlogger.Info)

	sql, params := gl.ParamsFilter(context.Background(), "INSERT INTO users (password_hash) VALUES (?)", "$2a$10$hash")
	assert.Equal(t, "INSERT INTO users (password_hash) VALUES (?)", sql)
	assert.Empty(t, params)
}
