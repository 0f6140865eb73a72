package extractions

import "context"

// Repo defines persistence operations for extraction audit records.
type Repo interface {
	Create(ctx context.Context, extraction Extraction) error
	ListRecent(ctx context.Context, limit int) ([]Extraction, error)
}
