package extractions

import "time"

// Extraction statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Extraction is the audit record for one processed document. Only request
// metadata is kept; document bytes and extracted field values are never
// stored, and nothing here is consulted before processing a request.
type Extraction struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Extension  string    `json:"extension"`
	SizeBytes  int64     `json:"sizeBytes"`
	Status     string    `json:"status"`
	ErrorCode  string    `json:"errorCode,omitempty"`
	DurationMs int64     `json:"durationMs"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
