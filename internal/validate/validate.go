package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// MaxDocumentBytes is the default upload ceiling (the OCR provider's limit).
const MaxDocumentBytes = 50 << 20

var (
	// OCRFormats is the allow-list for OCR-capable deployments.
	OCRFormats = []string{".pdf", ".doc", ".docx", ".txt", ".png", ".jpg", ".jpeg"}
	// NativeFormats is the reduced allow-list for deployments without an OCR provider.
	NativeFormats = []string{".pdf", ".txt", ".docx"}
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooLarge          = errors.New("file size exceeds maximum limit")
)

// Policy is a pure predicate over filename extension and size. It performs
// no I/O and is checked before any provider call is made.
type Policy struct {
	allowed map[string]struct{}
	maxSize int64
}

// NewPolicy builds a Policy from an extension allow-list and a size limit in
// bytes. Extensions are matched case-insensitively.
func NewPolicy(extensions []string, maxSizeBytes int64) Policy {
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	if maxSizeBytes <= 0 {
		maxSizeBytes = MaxDocumentBytes
	}
	return Policy{allowed: allowed, maxSize: maxSizeBytes}
}

// Check rejects files whose extension is outside the allow-list or whose
// size exceeds the configured maximum. A rejected file is never retried.
func (p Policy) Check(filename string, sizeBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := p.allowed[ext]; !ok {
		return fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedFormat, ext, strings.Join(p.Extensions(), ", "))
	}
	if sizeBytes > p.maxSize {
		return fmt.Errorf("%w of %dMB", ErrTooLarge, p.maxSize/(1<<20))
	}
	return nil
}

// MaxSizeBytes returns the configured size ceiling.
func (p Policy) MaxSizeBytes() int64 {
	return p.maxSize
}

// Extensions returns the allow-list in sorted order.
func (p Policy) Extensions() []string {
	out := make([]string, 0, len(p.allowed))
	for ext := range p.allowed {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
