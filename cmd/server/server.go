package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/studyflow/internal/config"
	"github.com/thereayou/studyflow/internal/database"
	"github.com/thereayou/studyflow/internal/handlers"
	"github.com/thereayou/studyflow/internal/logging"
	"github.com/thereayou/studyflow/internal/middleware"
	"github.com/thereayou/studyflow/internal/revocation"
	"github.com/thereayou/studyflow/internal/services"
	"github.com/thereayou/studyflow/internal/websocket"
	"github.com/thereayou/studyflow/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Hub        *websocket.Hub
	JWTManager *auth.JWTManager

	cfg *config.Config
	log logging.Logger
}

func NewServer(cfg *config.Config, log logging.Logger) (*Server, error) {
	db, err := database.Connect(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseURL,
		Logger: log.With("component", "gorm"),
	})
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}

	var (
		rdb     *redis.Client
		revoked revocation.Store
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		revoked = revocation.NewRedisStore(rdb)
	} else {
		log.Warn(context.Background(), "REDIS_URL not set, token revocations are kept in memory")
		revoked = revocation.NewMemoryStore()
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	hub := websocket.NewHub(log.With("component", "websocket"))
	go hub.Run()

	authSvc, err := services.NewAuthService(db, jwtMgr, cfg.BcryptCost, log)
	if err != nil {
		return nil, err
	}
	noteSvc := services.NewNoteService(db, hub, nil)
	progressSvc := services.NewProgressService(db, hub, nil, cfg.Location, log)
	feedbackSvc := services.NewFeedbackService(db, nil, log)

	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	APIEndpoints(router, routeDeps{
		JWTManager: jwtMgr,
		Revoked:    revoked,
		DB:         db,
		AuthH:      handlers.NewAuthHandler(authSvc, jwtMgr, revoked, cfg.RevocationTTL, log),
		NoteH:      handlers.NewNoteHandler(noteSvc, log),
		ProgressH:  handlers.NewProgressHandler(progressSvc, feedbackSvc, log),
		WSH:        handlers.NewWebSocketHandler(hub, originChecker(cfg.AllowedOrigins), log),
	})

	return &Server{
		Router:     router,
		DB:         db,
		Redis:      rdb,
		Hub:        hub,
		JWTManager: jwtMgr,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "server starting", "port", s.cfg.Port, "db_driver", s.cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.Hub.Stop()
	err := srv.Shutdown(shutdownCtx)

	if s.Redis != nil {
		if cerr := s.Redis.Close(); cerr != nil {
			s.log.Warn(shutdownCtx, "redis close", "err", cerr)
		}
	}
	if cerr := s.DB.Close(); cerr != nil {
		s.log.Warn(shutdownCtx, "database close", "err", cerr)
	}

	s.log.Info(shutdownCtx, "server stopped")
	return err
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func originChecker(origins []string) func(r *http.Request) bool {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return nil
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}
