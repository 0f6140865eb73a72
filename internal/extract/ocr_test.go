package extract

import (
	"context"
	"errors"
	"testing"

	"policy-backend/internal/ocr"
)

type fakeOCRClient struct {
	resp *ocr.Response
	err  error
}

func (f *fakeOCRClient) Process(ctx context.Context, data []byte, filename string) (*ocr.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestOCRExtractorJoinsPagesInOrder(t *testing.T) {
	extractor := &OCRExtractor{Client: &fakeOCRClient{resp: &ocr.Response{
		Pages: []ocr.Page{
			{Index: 1, Markdown: "## Benefits"},
			{Index: 0, Markdown: "# Policy Schedule"},
			{Index: 2, Markdown: "   "},
		},
	}}}

	text, err := extractor.ExtractText(context.Background(), []byte("doc"), "policy.pdf")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "# Policy Schedule\n\n## Benefits"
	if text != want {
		t.Fatalf("expected pages joined in page order, got %q", text)
	}
}

func TestOCRExtractorNoPagesWithText(t *testing.T) {
	extractor := &OCRExtractor{Client: &fakeOCRClient{resp: &ocr.Response{
		Pages: []ocr.Page{{Index: 0, Markdown: ""}, {Index: 1, Markdown: "  \n "}},
	}}}

	_, err := extractor.ExtractText(context.Background(), []byte("doc"), "policy.pdf")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestOCRExtractorProviderFailure(t *testing.T) {
	extractor := &OCRExtractor{Client: &fakeOCRClient{err: errors.New("boom")}}

	_, err := extractor.ExtractText(context.Background(), []byte("doc"), "policy.pdf")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}

func TestOCRExtractorUnconfigured(t *testing.T) {
	extractor := &OCRExtractor{}

	_, err := extractor.ExtractText(context.Background(), []byte("doc"), "policy.pdf")
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
}
