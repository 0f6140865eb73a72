package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"policy-backend/internal/ocr"
)

// OCRClient is the slice of the Mistral OCR client this strategy needs.
type OCRClient interface {
	Process(ctx context.Context, data []byte, filename string) (*ocr.Response, error)
}

// OCRExtractor submits the whole document to the OCR provider and joins the
// returned page markdown in page order.
type OCRExtractor struct {
	Client OCRClient
}

func (e *OCRExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	if e.Client == nil {
		return "", fmt.Errorf("%w: OCR provider not configured", ErrProvider)
	}

	resp, err := e.Client.Process(ctx, data, filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	pages := make([]ocr.Page, len(resp.Pages))
	copy(pages, resp.Pages)
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	var texts []string
	for _, page := range pages {
		if strings.TrimSpace(page.Markdown) != "" {
			texts = append(texts, page.Markdown)
		}
	}
	if len(texts) == 0 {
		return "", fmt.Errorf("%w: OCR returned no pages with text", ErrNoContent)
	}
	return strings.Join(texts, "\n\n"), nil
}

var _ TextExtractor = (*OCRExtractor)(nil)
