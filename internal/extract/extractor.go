// Package extract obtains plain text from uploaded policy documents. Two
// interchangeable strategies implement TextExtractor: OCRExtractor delegates
// the whole document to the OCR provider; NativeExtractor reads supported
// formats directly. Which one runs is a deployment decision made at
// construction time, never a branch inside the pipeline.
package extract

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedFormat means the strategy has no reader for this extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrNoContent means extraction ran but produced no text. Fatal for the
	// request; never retried.
	ErrNoContent = errors.New("no text content found in document")
	// ErrProvider wraps failures of the OCR/vision provider or a native
	// reader. Retries, if any, belong to the caller; this package never
	// retries internally.
	ErrProvider = errors.New("text extraction failed")
)

// TextExtractor converts raw document bytes into plain text.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}
