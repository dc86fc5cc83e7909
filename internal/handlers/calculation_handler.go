package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"math-operations-api/internal/calculator"
	"math-operations-api/internal/models"
	"math-operations-api/internal/repository"
	"math-operations-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CalculateRequest represents the request payload for a calculation
type CalculateRequest struct {
	Operation models.Operation `json:"operation" binding:"required,oneof=power fibonacci factorial"`
	Value     *int64           `json:"value" binding:"required"`
	Exponent  *int64           `json:"exponent"`
}

// HistoryItem is one entry of the history listing
type HistoryItem struct {
	ID                uint             `json:"id"`
	Operation         models.Operation `json:"operation"`
	InputValue        int64            `json:"input_value"`
	Exponent          *int64           `json:"exponent"`
	Result            json.Number      `json:"result"`
	ComputationTimeMs float64          `json:"computation_time_ms"`
	Cached            bool             `json:"cached"`
	CreatedAt         time.Time        `json:"created_at"`
	IPAddress         string           `json:"ip_address,omitempty"`
}

/*
Calculate handles POST /api/v1/calculate
Serves power, fibonacci and factorial, consulting the cache first.
*/
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid request",
			"detail": err.Error(),
		})
		return
	}

	resp, err := h.calculations.Calculate(c.Request.Context(), service.Request{
		Operation: req.Operation,
		Value:     *req.Value,
		Exponent:  req.Exponent,
	}, c.ClientIP())
	if err != nil {
		if errors.Is(err, calculator.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Invalid input",
				"detail": err.Error(),
			})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal error",
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

/*
GetHistory handles GET /api/v1/history
Query params: skip (default 0), limit (1..1000, default 100), operation (optional filter).
The X-Total-Count header holds the number of records matching operation.
*/
func (h *Handler) GetHistory(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be a non-negative integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultHistoryLimit)))
	if err != nil || limit < 1 || limit > repository.MaxHistoryLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
		return
	}
	op := models.Operation(c.Query("operation"))
	if op != "" && !op.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation must be one of power, fibonacci, factorial"})
		return
	}

	records, err := h.history.List(c.Request.Context(), repository.HistoryFilter{
		Skip:      skip,
		Limit:     limit,
		Operation: op,
	})
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	total, err := h.history.Count(c.Request.Context(), op)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count history"})
		return
	}
	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))

	items := make([]HistoryItem, 0, len(records))
	for _, r := range records {
		items = append(items, HistoryItem{
			ID:                r.ID,
			Operation:         r.Operation,
			InputValue:        r.InputValue,
			Exponent:          r.Exponent,
			Result:            json.Number(r.Result),
			ComputationTimeMs: r.ComputationTimeMs,
			Cached:            r.Cached,
			CreatedAt:         r.CreatedAt,
			IPAddress:         r.IPAddress,
		})
	}

	c.JSON(http.StatusOK, items)
}
