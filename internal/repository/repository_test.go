package repository

import (
	"context"
	"testing"

	"math-operations-api/internal/models"
	"math-operations-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestHistory_RecordAndList(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	h := NewHistory(db)
	ctx := context.Background()

	ten := int64(10)
	seed := []models.OperationHistory{
		{Operation: models.OperationPower, InputValue: 2, Exponent: &ten, Result: "1024", ComputationTimeMs: 0.1},
		{Operation: models.OperationFibonacci, InputValue: 10, Result: "55", ComputationTimeMs: 0.2},
		{Operation: models.OperationFactorial, InputValue: 5, Result: "120", Cached: true, IPAddress: "127.0.0.1"},
	}
	for i := range seed {
		require.NoError(t, h.Record(ctx, &seed[i]))
		require.NotZero(t, seed[i].ID)
		require.False(t, seed[i].CreatedAt.IsZero())
	}

	all, err := h.List(ctx, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, models.OperationFactorial, all[0].Operation, "newest first")
	require.True(t, all[0].Cached)
	require.Equal(t, "127.0.0.1", all[0].IPAddress)
	require.NotNil(t, all[2].Exponent)
	require.Equal(t, int64(10), *all[2].Exponent)
	require.Nil(t, all[1].Exponent)

	onlyFib, err := h.List(ctx, HistoryFilter{Operation: models.OperationFibonacci})
	require.NoError(t, err)
	require.Len(t, onlyFib, 1)
	require.Equal(t, "55", onlyFib[0].Result)

	page, err := h.List(ctx, HistoryFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, models.OperationFibonacci, page[0].Operation)

	total, err := h.Count(ctx, "")
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
}

func TestUsers_EnsureAdmin(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	u := NewUsers(db)
	ctx := context.Background()

	_, err = u.FindByUsername(ctx, "admin")
	require.ErrorIs(t, err, ErrUserNotFound)

	created, err := u.EnsureAdmin(ctx, "admin", "hash-1")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	updated, err := u.EnsureAdmin(ctx, "admin", "hash-2")
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)

	found, err := u.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, "hash-2", found.PasswordHash)
}
