package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"math-operations-api/internal/auth"
	"math-operations-api/internal/cache"
	"math-operations-api/internal/calculator"
	"math-operations-api/internal/config"
	"math-operations-api/internal/database"
	"math-operations-api/internal/handlers"
	"math-operations-api/internal/realtime"
	"math-operations-api/internal/repository"
	"math-operations-api/internal/routes"
	"math-operations-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server owns the database and the router, which holds the process-wide cache.
type Server struct {
	cfg    config.Config
	log    zerolog.Logger
	db     *gorm.DB
	router *gin.Engine
}

// New builds a Server from cfg using the SQLite database at cfg.DatabaseURL.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger) (*Server, error) {
	db, err := database.Open(cfg.DatabaseURL, log.GetLevel() <= zerolog.DebugLevel)
	if err != nil {
		return nil, err
	}
	s, err := NewWithDB(ctx, cfg, db, log)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return s, nil
}

// NewWithDB builds a Server around an already migrated database.
func NewWithDB(ctx context.Context, cfg config.Config, db *gorm.DB, log zerolog.Logger) (*Server, error) {
	lru, err := cache.NewLRU[decimal.Decimal](cache.Options{
		MaxSize: cfg.CacheMaxSize,
		TTL:     cfg.CacheTTL(),
	})
	if err != nil {
		return nil, err
	}

	users := repository.NewUsers(db)
	password, generated := cfg.AdminPassword, false
	if password == "" {
		password, generated = uuid.NewString(), true
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := users.EnsureAdmin(ctx, cfg.AdminUsername, hash); err != nil {
		return nil, err
	}
	if generated {
		// valid until the next start; set ADMIN_PASSWORD to keep a stable one
		log.Warn().
			Str("username", cfg.AdminUsername).
			Str("password", password).
			Msg("ADMIN_PASSWORD not set, generated an admin password for this run")
	}

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn().Msg("JWT_SECRET not set, admin tokens are signed with the development secret")
	}

	history := repository.NewHistory(db)
	hub := realtime.NewHub()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL())
	calcs := service.NewCalculations(
		lru,
		calculator.New(calculator.Limits{MaxOperand: cfg.MaxOperand, MaxExponent: cfg.MaxExponent}),
		history,
		hub,
		log,
	)

	h := handlers.New(calcs, history, users, tokens, hub, log)
	router := routes.SetupRoutes(h, tokens, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	})

	return &Server{
		cfg:    cfg,
		log:    log,
		db:     db,
		router: router,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().
			Str("addr", srv.Addr).
			Int("cache_max_size", s.cfg.CacheMaxSize).
			Dur("cache_ttl", s.cfg.CacheTTL()).
			Msg("server starting")
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

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Close releases the database.
func (s *Server) Close() error {
	return database.Close(s.db)
}
