package repository

import (
	"context"

	"github.com/mohamedEMHA/scarmo/internal/domain"
)

// StatusRepository stores status-check records.
type StatusRepository interface {
	Insert(ctx context.Context, check *domain.StatusCheck) error
	// List returns at most limit records in insertion order.
	List(ctx context.Context, limit int64) ([]domain.StatusCheck, error)
}
