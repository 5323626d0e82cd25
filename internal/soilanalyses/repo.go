package soilanalyses

import "context"

// Repo defines persistence operations for soil analyses. Soft-deleted
// analyses are invisible to every read.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	Update(ctx context.Context, analysis Analysis) error
	Delete(ctx context.Context, analysisID string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
