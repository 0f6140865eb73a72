package extractions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores extraction records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	records []Extraction
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores the extraction record.
func (r *MemoryRepo) Create(ctx context.Context, extraction Extraction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, extraction)
	return nil
}

// ListRecent returns records newest first, up to limit. Limit zero returns
// no rows; defaulting is the caller's job.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Extraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	records := make([]Extraction, len(r.records))
	copy(records, r.records)
	r.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

var _ Repo = (*MemoryRepo)(nil)
