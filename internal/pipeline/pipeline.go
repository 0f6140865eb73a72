// Package pipeline wires the document-to-structured-record flow: validate
// the upload, obtain plain text, coerce it into the canonical record via the
// LLM, normalize. Every stage fails fast; no stage retries, caches, or
// returns partial results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	"policy-backend/internal/record"
	"policy-backend/internal/shared/metrics"
	"policy-backend/internal/shared/telemetry"
	"policy-backend/internal/validate"
)

// Error taxonomy surfaced to callers. The transport layer maps these to
// status codes; the pipeline itself is provider- and transport-agnostic.
var (
	// ErrInvalidInput: bad extension or size. User error, never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoExtractableText: extraction produced nothing usable. User error.
	ErrNoExtractableText = errors.New("no text could be extracted from the document")
	// ErrUpstreamFailure: an OCR or LLM provider call failed.
	ErrUpstreamFailure = errors.New("upstream provider failure")
	// ErrMalformedOutput: LLM output could not be parsed into the schema.
	// The pipeline reports this rather than guessing field values.
	ErrMalformedOutput = errors.New("malformed extraction output")
)

// Pipeline processes one document per call. It holds no mutable state
// between requests; concurrent use is safe as long as the injected clients
// are.
type Pipeline struct {
	Policy    validate.Policy
	Extractor extract.TextExtractor
	LLM       llm.Client
}

// Process runs the full pipeline on raw document bytes. It either returns a
// fully normalized record or exactly one typed error.
func (p *Pipeline) Process(ctx context.Context, data []byte, filename string) (record.Record, error) {
	start := time.Now()
	metrics.IncExtractionStarted()

	rec, err := p.process(ctx, data, filename)
	duration := time.Since(start)
	metrics.ObserveExtractionDurationMs(float64(duration.Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncExtractionFailed()
		telemetry.Error("pipeline.failed", map[string]any{
			"file_name":   filename,
			"size_bytes":  len(data),
			"duration_ms": duration.Milliseconds(),
			"err":         err.Error(),
		})
		return record.Record{}, err
	}

	metrics.IncExtractionCompleted()
	telemetry.Info("pipeline.completed", map[string]any{
		"file_name":   filename,
		"size_bytes":  len(data),
		"duration_ms": duration.Milliseconds(),
	})
	return rec, nil
}

func (p *Pipeline) process(ctx context.Context, data []byte, filename string) (record.Record, error) {
	if err := p.Policy.Check(filename, int64(len(data))); err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	text, err := p.Extractor.ExtractText(ctx, data, filename)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			return record.Record{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		case errors.Is(err, extract.ErrNoContent):
			return record.Record{}, fmt.Errorf("%w: %v", ErrNoExtractableText, err)
		default:
			return record.Record{}, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return record.Record{}, ErrNoExtractableText
	}

	return p.extractFields(ctx, text)
}

// ProcessText runs field extraction on already-extracted text, skipping
// validation and the text extraction stage.
func (p *Pipeline) ProcessText(ctx context.Context, text string) (record.Record, error) {
	if strings.TrimSpace(text) == "" {
		return record.Record{}, fmt.Errorf("%w: text cannot be empty", ErrInvalidInput)
	}
	return p.extractFields(ctx, text)
}

func (p *Pipeline) extractFields(ctx context.Context, text string) (record.Record, error) {
	raw, err := p.LLM.ExtractFields(ctx, text)
	if err != nil {
		if errors.Is(err, llm.ErrMalformedOutput) {
			return record.Record{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
		}
		return record.Record{}, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	rec, err := record.Normalize(raw)
	if err != nil {
		return record.Record{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return rec, nil
}
