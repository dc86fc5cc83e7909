package handlers

import (
	"context"

	"math-operations-api/internal/auth"
	"math-operations-api/internal/models"
	"math-operations-api/internal/realtime"
	"math-operations-api/internal/repository"
	"math-operations-api/internal/service"

	"github.com/rs/zerolog"
)

const (
	ServiceName        = "Math Operations Microservice"
	ServiceVersion     = "1.0.0"
	ServiceDescription = "A microservice for mathematical operations with caching and persistence"
)

// HistoryReader lists and counts recorded calculations.
type HistoryReader interface {
	List(ctx context.Context, f repository.HistoryFilter) ([]models.OperationHistory, error)
	Count(ctx context.Context, op models.Operation) (int64, error)
}

// TotalCountHeader carries the number of history records matching the filter.
const TotalCountHeader = "X-Total-Count"

// UserFinder resolves accounts for login.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// Handler serves the HTTP API. Every dependency is owned by the caller.
type Handler struct {
	calculations *service.Calculations
	history      HistoryReader
	users        UserFinder
	tokens       *auth.TokenManager
	hub          *realtime.Hub
	log          zerolog.Logger
}

// New returns a Handler.
func New(
	calculations *service.Calculations,
	history HistoryReader,
	users UserFinder,
	tokens *auth.TokenManager,
	hub *realtime.Hub,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		calculations: calculations,
		history:      history,
		users:        users,
		tokens:       tokens,
		hub:          hub,
		log:          log,
	}
}
