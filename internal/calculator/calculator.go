package calculator

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"math-operations-api/internal/models"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput marks requests that no operation can satisfy.
var ErrInvalidInput = errors.New("invalid input")

// DivisionPrecision is the number of fractional digits kept for negative exponents.
const DivisionPrecision = 32

// Limits bounds operands so a single request cannot monopolize the CPU.
// A zero field means unbounded.
type Limits struct {
	MaxOperand  int64
	MaxExponent int64
}

// Calculator performs the supported operations within its limits.
type Calculator struct {
	limits Limits
}

// New returns a Calculator enforcing limits.
func New(limits Limits) *Calculator {
	return &Calculator{limits: limits}
}

// Validate checks a request before any cache lookup or computation.
func (c *Calculator) Validate(op models.Operation, value int64, exponent *int64) error {
	switch op {
	case models.OperationPower:
		if exponent == nil {
			return fmt.Errorf("%w: exponent is required for power operation", ErrInvalidInput)
		}
		if !withinBound(*exponent, c.limits.MaxExponent) {
			return fmt.Errorf("%w: exponent magnitude must not exceed %d", ErrInvalidInput, c.limits.MaxExponent)
		}
		if *exponent < 0 && value == 0 {
			return fmt.Errorf("%w: zero cannot be raised to a negative power", ErrInvalidInput)
		}
	case models.OperationFibonacci:
		if value < 0 {
			return fmt.Errorf("%w: fibonacci requires non-negative integer", ErrInvalidInput)
		}
	case models.OperationFactorial:
		if value < 0 {
			return fmt.Errorf("%w: factorial requires non-negative integer", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported operation %q", ErrInvalidInput, op)
	}
	if !withinBound(value, c.limits.MaxOperand) {
		return fmt.Errorf("%w: value magnitude must not exceed %d", ErrInvalidInput, c.limits.MaxOperand)
	}
	return nil
}

// Compute validates and runs op, returning the result and the time spent computing it.
func (c *Calculator) Compute(op models.Operation, value int64, exponent *int64) (decimal.Decimal, time.Duration, error) {
	if err := c.Validate(op, value, exponent); err != nil {
		return decimal.Decimal{}, 0, err
	}

	start := time.Now()
	var (
		result decimal.Decimal
		err    error
	)
	switch op {
	case models.OperationPower:
		result, err = Power(value, *exponent)
	case models.OperationFibonacci:
		result, err = Fibonacci(value)
	case models.OperationFactorial:
		result, err = Factorial(value)
	}
	return result, time.Since(start), err
}

// Power returns base raised to exponent. Negative exponents yield a decimal
// rounded to DivisionPrecision digits.
func Power(base, exponent int64) (decimal.Decimal, error) {
	magnitude := big.NewInt(exponent)
	if exponent < 0 {
		// math.MinInt64 has no int64 negation
		magnitude.Neg(magnitude)
	}
	p := new(big.Int).Exp(big.NewInt(base), magnitude, nil)
	if exponent >= 0 {
		return decimal.NewFromBigInt(p, 0), nil
	}
	if p.Sign() == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: zero cannot be raised to a negative power", ErrInvalidInput)
	}
	return decimal.NewFromInt(1).DivRound(decimal.NewFromBigInt(p, 0), DivisionPrecision), nil
}

// Fibonacci returns the n-th Fibonacci number, with F(0)=0 and F(1)=1.
func Fibonacci(n int64) (decimal.Decimal, error) {
	if n < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: fibonacci requires non-negative integer", ErrInvalidInput)
	}
	prev, curr := big.NewInt(0), big.NewInt(1)
	if n == 0 {
		return decimal.NewFromBigInt(prev, 0), nil
	}
	for i := int64(2); i <= n; i++ {
		prev.Add(prev, curr)
		prev, curr = curr, prev
	}
	return decimal.NewFromBigInt(curr, 0), nil
}

// Factorial returns n!.
func Factorial(n int64) (decimal.Decimal, error) {
	if n < 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: factorial is not defined for negative numbers", ErrInvalidInput)
	}
	result := big.NewInt(1)
	if n > 1 {
		result.MulRange(2, n)
	}
	return decimal.NewFromBigInt(result, 0), nil
}

// withinBound reports whether -limit <= v <= limit. A zero limit means unbounded.
func withinBound(v, limit int64) bool {
	if limit <= 0 {
		return true
	}
	return v >= -limit && v <= limit
}
