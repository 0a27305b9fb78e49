package driven

import (
	"context"

	"github.com/finwatch/findetect/internal/core/domain"
)

// RunStore persists processing run records.
type RunStore interface {
	// Save stores a run record.
	Save(ctx context.Context, run domain.Run) error

	// Get retrieves a run by ID.
	// Returns domain.ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}
