package calculator

import (
	"errors"
	"math"
	"testing"

	"math-operations-api/internal/models"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestPower(t *testing.T) {
	cases := []struct {
		base, exponent int64
		want           string
	}{
		{2, 10, "1024"},
		{5, 0, "1"},
		{0, 0, "1"},
		{10, 10, "10000000000"},
		{-3, 3, "-27"},
		{2, -2, "0.25"},
		{2, 100, "1267650600228229401496703205376"},
		{1, math.MinInt64, "1"},
		{-1, math.MinInt64, "1"},
		{-1, math.MinInt64 + 1, "-1"},
		{-1, math.MaxInt64, "-1"},
	}
	for _, tc := range cases {
		got, err := Power(tc.base, tc.exponent)
		require.NoError(t, err)
		require.Equal(t, tc.want, got.String(), "%d^%d", tc.base, tc.exponent)
	}

	third, err := Power(3, -1)
	require.NoError(t, err)
	require.Equal(t, "0.33333333333333333333333333333333", third.String())

	_, err = Power(0, -1)
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Power(0, math.MinInt64)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFibonacci(t *testing.T) {
	cases := map[int64]string{
		0: "0", 1: "1", 2: "1", 3: "2", 4: "3", 5: "5",
		6: "8", 7: "13", 10: "55", 15: "610",
		100: "354224848179261915075",
	}
	for n, want := range cases {
		got, err := Fibonacci(n)
		require.NoError(t, err)
		require.Equal(t, want, got.String(), "fibonacci(%d)", n)
	}

	_, err := Fibonacci(-1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFactorial(t *testing.T) {
	cases := map[int64]string{
		0: "1", 1: "1", 2: "2", 3: "6", 4: "24", 5: "120",
		6: "720", 10: "3628800",
		50: "30414093201713378043612608166064768844377641568960512000000000000",
	}
	for n, want := range cases {
		got, err := Factorial(n)
		require.NoError(t, err)
		require.Equal(t, want, got.String(), "factorial(%d)", n)
	}

	_, err := Factorial(-5)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Contains(t, err.Error(), "factorial is not defined for negative numbers")
}

func TestValidate(t *testing.T) {
	c := New(Limits{MaxOperand: 100, MaxExponent: 50})

	require.NoError(t, c.Validate(models.OperationPower, 2, ptr(10)))
	require.NoError(t, c.Validate(models.OperationFibonacci, 100, nil))
	require.NoError(t, c.Validate(models.OperationFactorial, 0, nil))
	require.NoError(t, c.Validate(models.OperationPower, -100, ptr(-50)))

	invalid := []struct {
		op       models.Operation
		value    int64
		exponent *int64
	}{
		{models.OperationPower, 2, nil},
		{models.OperationPower, 2, ptr(51)},
		{models.OperationPower, 0, ptr(-1)},
		{models.OperationFibonacci, -1, nil},
		{models.OperationFactorial, -1, nil},
		{models.OperationFactorial, 101, nil},
		{models.Operation("sqrt"), 4, nil},
		{models.OperationPower, 2, ptr(math.MinInt64)},
		{models.OperationPower, 2, ptr(-51)},
		{models.OperationPower, math.MinInt64, ptr(2)},
		{models.OperationPower, -101, ptr(2)},
	}
	for _, tc := range invalid {
		require.ErrorIs(t, c.Validate(tc.op, tc.value, tc.exponent), ErrInvalidInput, "%s %d", tc.op, tc.value)
	}
}

func TestCompute(t *testing.T) {
	c := New(Limits{})

	got, elapsed, err := c.Compute(models.OperationPower, 2, ptr(10))
	require.NoError(t, err)
	require.Equal(t, "1024", got.String())
	require.GreaterOrEqual(t, elapsed.Nanoseconds(), int64(0))

	got, _, err = c.Compute(models.OperationFactorial, 5, nil)
	require.NoError(t, err)
	require.Equal(t, "120", got.String())

	_, _, err = c.Compute(models.OperationPower, 2, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	bounded := New(Limits{MaxOperand: 10000, MaxExponent: 10000})
	_, _, err = bounded.Compute(models.OperationPower, 2, ptr(math.MinInt64))
	require.ErrorIs(t, err, ErrInvalidInput)
	_, _, err = bounded.Compute(models.OperationFibonacci, math.MinInt64, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
