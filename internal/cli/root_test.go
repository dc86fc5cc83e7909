package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"math-operations-api/internal/config"
	"math-operations-api/internal/server"
	"math-operations-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func startAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.AdminPassword = "pw"
	s, err := server.NewWithDB(context.Background(), cfg, db, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv.URL + config.APIPrefix
}

func run(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmdWithEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculateCommands(t *testing.T) {
	url := startAPI(t)
	env := map[string]string{"MATHCTL_URL": url}

	out, err := run(t, env, "power", "-b", "2", "-e", "10")
	require.NoError(t, err)
	require.Contains(t, out, "Result: 1024")
	require.Contains(t, out, "Exponent: 10")
	require.Contains(t, out, "Cached: No")

	out, err = run(t, env, "power", "--base", "2", "--exponent", "10")
	require.NoError(t, err)
	require.Contains(t, out, "Cached: Yes")

	out, err = run(t, env, "fibonacci", "-n", "10")
	require.NoError(t, err)
	require.Contains(t, out, "Result: 55")

	out, err = run(t, env, "factorial", "-n", "5")
	require.NoError(t, err)
	require.Contains(t, out, "Result: 120")

	_, err = run(t, env, "factorial", "-n", "-5")
	require.Error(t, err)
	require.Contains(t, err.Error(), "factorial requires non-negative integer")
}

func TestHistoryAndCacheCommands(t *testing.T) {
	url := startAPI(t)
	env := map[string]string{"MATHCTL_URL": url}

	out, err := run(t, env, "history")
	require.NoError(t, err)
	require.Contains(t, out, "No operations found in history.")

	_, err = run(t, env, "factorial", "-n", "30")
	require.NoError(t, err)
	_, err = run(t, env, "fibonacci", "-n", "10")
	require.NoError(t, err)

	out, err = run(t, env, "history", "-o", "factorial")
	require.NoError(t, err)
	require.Contains(t, out, "OPERATION")
	require.Contains(t, out, "26525285981219105863...")
	require.NotContains(t, out, "fibonacci")
	require.Contains(t, out, "Showing 1 of 1 operations")

	out, err = run(t, env, "history", "-l", "1")
	require.NoError(t, err)
	require.Contains(t, out, "Showing 1 of 2 operations")

	_, err = run(t, env, "history", "-o", "sqrt")
	require.Error(t, err)

	out, err = run(t, env, "cache-stats")
	require.NoError(t, err)
	require.Contains(t, out, "Current size: 2")
	require.Contains(t, out, "Maximum size: 1000")
	require.Contains(t, out, "TTL: 3600 seconds")

	_, err = run(t, env, "clear-cache")
	require.ErrorContains(t, err, "--yes")
	_, err = run(t, env, "clear-cache", "--yes")
	require.ErrorContains(t, err, "requires --token")

	token, err := run(t, env, "login", "-u", "admin", "-p", "pw")
	require.NoError(t, err)
	token = strings.TrimSpace(token)
	require.NotEmpty(t, token)

	_, err = run(t, env, "login", "-u", "admin", "-p", "wrong")
	require.Error(t, err)

	out, err = run(t, env, "clear-cache", "--yes", "--token", token)
	require.NoError(t, err)
	require.Contains(t, out, "Cache cleared successfully!")

	out, err = run(t, map[string]string{"MATHCTL_URL": url, "MATHCTL_TOKEN": token}, "cache-stats")
	require.NoError(t, err)
	require.Contains(t, out, "Current size: 0")
}

func TestUnavailableAPI(t *testing.T) {
	_, err := run(t, map[string]string{"MATHCTL_URL": "http://127.0.0.1:1/api/v1"}, "fibonacci", "-n", "3")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cannot connect to the API")
}
