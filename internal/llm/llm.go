package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for structured field extraction.
type Client interface {
	// ExtractFields sends the document text with the extraction rulebook and
	// returns the provider's raw JSON output. Implementations make a single
	// attempt; retrying is never the adapter's responsibility.
	ExtractFields(ctx context.Context, documentText string) (json.RawMessage, error)
}

// ErrMalformedOutput indicates the provider returned text that contains no
// parseable JSON object.
var ErrMalformedOutput = errors.New("no valid JSON object in LLM output")

// ErrNotConfigured is returned by the placeholder client when no provider
// key was supplied at startup.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is the stand-in used when no provider API key is set.
// The health endpoint reports the service as degraded in that case.
type PlaceholderClient struct{}

// ExtractFields returns ErrNotConfigured.
func (PlaceholderClient) ExtractFields(ctx context.Context, documentText string) (json.RawMessage, error) {
	_ = ctx
	_ = documentText
	return nil, ErrNotConfigured
}
