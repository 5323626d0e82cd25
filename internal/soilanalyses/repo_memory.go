package soilanalyses

import (
	"context"
	"sort"
	"sync"
	"time"

	"agri-backend/internal/soil"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = clone(analysis)
	return nil
}

// GetByID returns a live analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[analysisID]
	if !ok || a.DeletedAt != nil {
		return Analysis{}, ErrNotFound
	}
	return clone(a), nil
}

// Update replaces a live analysis if it is still at analysis.Version and
// bumps the stored version.
func (r *MemoryRepo) Update(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[analysis.ID]
	if !ok || existing.DeletedAt != nil {
		return ErrNotFound
	}
	if existing.Version != analysis.Version {
		return ErrConflict
	}
	analysis.Version++
	r.byID[analysis.ID] = clone(analysis)
	return nil
}

// Delete soft-deletes the analysis.
func (r *MemoryRepo) Delete(ctx context.Context, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[analysisID]
	if !ok || a.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	a.DeletedAt = &now
	r.byID[analysisID] = a
	return nil
}

// ListByUser returns the user's live analyses, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	owned := r.ownedLocked(userID)
	r.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	if offset >= len(owned) {
		return []Analysis{}, nil
	}
	end := len(owned)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

// CountByUser counts the user's live analyses.
func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ownedLocked(userID)), nil
}

func (r *MemoryRepo) ownedLocked(userID string) []Analysis {
	var out []Analysis
	for _, a := range r.byID {
		if a.UserID == userID && a.DeletedAt == nil {
			out = append(out, clone(a))
		}
	}
	return out
}

func clone(a Analysis) Analysis {
	if a.SoilParameters != nil {
		params := make(soil.ParameterSet, len(a.SoilParameters))
		for k, v := range a.SoilParameters {
			params[k] = v
		}
		a.SoilParameters = params
	}
	a.Location.Coordinates = cloneSlice(a.Location.Coordinates)
	a.Result.Recommendations = cloneSlice(a.Result.Recommendations)
	a.Result.SuitableCrops = cloneSlice(a.Result.SuitableCrops)
	a.Images = cloneSlice(a.Images)
	a.SharedWith = cloneSlice(a.SharedWith)
	return a
}

func cloneSlice[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
