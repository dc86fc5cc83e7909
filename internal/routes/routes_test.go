package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"math-operations-api/internal/auth"
	"math-operations-api/internal/cache"
	"math-operations-api/internal/calculator"
	"math-operations-api/internal/handlers"
	"math-operations-api/internal/realtime"
	"math-operations-api/internal/repository"
	"math-operations-api/internal/service"
	"math-operations-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	lru, err := cache.NewLRU[decimal.Decimal](cache.Options{MaxSize: 10, TTL: time.Minute})
	require.NoError(t, err)

	history := repository.NewHistory(db)
	hub := realtime.NewHub()
	tokens := auth.NewTokenManager("secret", "issuer", "audience", time.Hour)
	calcs := service.NewCalculations(lru, calculator.New(calculator.Limits{}), history, hub, zerolog.Nop())
	h := handlers.New(calcs, history, repository.NewUsers(db), tokens, hub, zerolog.Nop())
	return SetupRoutes(h, tokens, Options{CORSOrigins: []string{"*"}, Logger: zerolog.Nop()})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/health", "/api/v1/health", "/"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
		require.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestProtectedRoutes(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPreflight(t *testing.T) {
	r := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/calculate", nil)
	req.Header.Set("Origin", "http://app.test")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
