package service

import (
	"context"
	"encoding/json"
	"time"

	"math-operations-api/internal/cache"
	"math-operations-api/internal/calculator"
	"math-operations-api/internal/models"
	"math-operations-api/internal/realtime"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// EventCalculationCompleted is published after every successful request.
const EventCalculationCompleted = "calculation_completed"

// HistoryRecorder persists one record per calculation request.
type HistoryRecorder interface {
	Record(ctx context.Context, rec *models.OperationHistory) error
}

// EventPublisher fans events out to live subscribers.
type EventPublisher interface {
	Publish(evt realtime.Event) error
}

// Request is a validated-on-entry calculation request.
type Request struct {
	Operation models.Operation
	Value     int64
	Exponent  *int64
}

// Response describes the outcome of a calculation.
type Response struct {
	Operation         models.Operation `json:"operation"`
	InputValue        int64            `json:"input_value"`
	Exponent          *int64           `json:"exponent"`
	Result            json.Number      `json:"result"`
	Cached            bool             `json:"cached"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	Timestamp         time.Time        `json:"timestamp"`
}

// Calculations answers calculation requests, consulting the cache first and
// recording every request in the history regardless of the cache outcome.
type Calculations struct {
	cache   cache.Cache[decimal.Decimal]
	calc    *calculator.Calculator
	history HistoryRecorder
	events  EventPublisher
	log     zerolog.Logger
}

// NewCalculations wires a Calculations. events may be nil.
func NewCalculations(
	c cache.Cache[decimal.Decimal],
	calc *calculator.Calculator,
	history HistoryRecorder,
	events EventPublisher,
	log zerolog.Logger,
) *Calculations {
	return &Calculations{
		cache:   c,
		calc:    calc,
		history: history,
		events:  events,
		log:     log.With().Str("component", "calculations").Logger(),
	}
}

// Calculate serves req. Validation failures wrap calculator.ErrInvalidInput
// and never reach the cache.
func (s *Calculations) Calculate(ctx context.Context, req Request, clientIP string) (*Response, error) {
	exponent := req.Exponent
	if req.Operation != models.OperationPower {
		// only power is keyed by exponent
		exponent = nil
	}
	if err := s.calc.Validate(req.Operation, req.Value, exponent); err != nil {
		return nil, err
	}

	key := cache.NewKey(req.Operation, req.Value, exponent)
	result, cached := s.cache.Get(req.Operation, req.Value, exponent)

	var elapsedMs float64
	if cached {
		s.log.Debug().Str("key", key.String()).Msg("cache hit")
	} else {
		s.log.Debug().Str("key", key.String()).Msg("cache miss")
		var (
			elapsed time.Duration
			err     error
		)
		result, elapsed, err = s.calc.Compute(req.Operation, req.Value, exponent)
		if err != nil {
			return nil, err
		}
		s.cache.Set(req.Operation, req.Value, result, exponent)
		elapsedMs = float64(elapsed.Nanoseconds()) / float64(time.Millisecond)
	}

	resp := &Response{
		Operation:         req.Operation,
		InputValue:        req.Value,
		Exponent:          exponent,
		Result:            json.Number(result.String()),
		Cached:            cached,
		ComputationTimeMs: elapsedMs,
		Timestamp:         time.Now().UTC(),
	}

	rec := &models.OperationHistory{
		Operation:         req.Operation,
		InputValue:        req.Value,
		Exponent:          exponent,
		Result:            result.String(),
		ComputationTimeMs: elapsedMs,
		Cached:            cached,
		IPAddress:         clientIP,
	}
	if err := s.history.Record(ctx, rec); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.Publish(realtime.Event{Type: EventCalculationCompleted, Data: resp}); err != nil {
			s.log.Warn().Err(err).Msg("publish calculation event")
		}
	}

	return resp, nil
}

// CacheStats returns the cache snapshot.
func (s *Calculations) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache empties the cache.
func (s *Calculations) ClearCache() {
	s.cache.Clear()
	s.log.Info().Msg("cache cleared")
}
