package repository

import (
	"context"
	"fmt"

	"math-operations-api/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

// HistoryFilter narrows a history listing. Zero Operation means all operations.
type HistoryFilter struct {
	Skip      int
	Limit     int
	Operation models.Operation
}

// History persists every calculation request.
type History struct {
	db *gorm.DB
}

// NewHistory returns a History backed by db.
func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Record stores rec, filling in its ID and CreatedAt.
func (h *History) Record(ctx context.Context, rec *models.OperationHistory) error {
	if err := h.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("record operation history: %w", err)
	}
	return nil
}

// List returns records newest first. Out-of-range skip/limit values are clamped.
func (h *History) List(ctx context.Context, f HistoryFilter) ([]models.OperationHistory, error) {
	if f.Skip < 0 {
		f.Skip = 0
	}
	if f.Limit < 1 {
		f.Limit = DefaultHistoryLimit
	}
	if f.Limit > MaxHistoryLimit {
		f.Limit = MaxHistoryLimit
	}

	query := h.db.WithContext(ctx).Model(&models.OperationHistory{})
	if f.Operation != "" {
		query = query.Where("operation = ?", f.Operation)
	}

	records := make([]models.OperationHistory, 0, f.Limit)
	if err := query.Order("created_at desc").Order("id desc").Offset(f.Skip).Limit(f.Limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list operation history: %w", err)
	}
	return records, nil
}

// Count returns the number of records matching op, or all records when op is empty.
func (h *History) Count(ctx context.Context, op models.Operation) (int64, error) {
	query := h.db.WithContext(ctx).Model(&models.OperationHistory{})
	if op != "" {
		query = query.Where("operation = ?", op)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count operation history: %w", err)
	}
	return total, nil
}
