package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Options struct {
	Driver string
	DSN    string
	Logger logging.Logger
}

// Connect opens the configured database, applies the schema and returns a
// ready Database.
func Connect(opts Options) (*Database, error) {
	if opts.DSN == "" {
		return nil, errors.New("database DSN is not set")
	}

	var dialector gorm.Dialector
	switch opts.Driver {
	case "postgres":
		dsn, err := ensureTimezoneUTC(opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("parse database URL: %w", err)
		}
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(opts.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	}
	if opts.Logger != nil {
		gormCfg.Logger = logging.NewGormLogger(opts.Logger, gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if opts.Driver == "sqlite" {
		// one writer; also keeps in-memory databases alive on a single connection
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Note{}, &models.Feedback{}, &models.GameProgress{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return NewDatabase(db), nil
}

func ensureTimezoneUTC(databaseURL string) (string, error) {
	if !strings.Contains(databaseURL, "://") {
		return databaseURL, nil
	}
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	if q.Get("TimeZone") == "" {
		q.Set("TimeZone", "UTC")
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn
	}
	return dsn + "?_foreign_keys=on&_busy_timeout=5000"
}
