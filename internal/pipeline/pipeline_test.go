package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	"policy-backend/internal/validate"
)

type fakeExtractor struct {
	text   string
	err    error
	called bool
}

func (f *fakeExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	f.called = true
	return f.text, f.err
}

type fakeLLM struct {
	raw    json.RawMessage
	err    error
	called bool
}

func (f *fakeLLM) ExtractFields(ctx context.Context, documentText string) (json.RawMessage, error) {
	f.called = true
	return f.raw, f.err
}

func newPipeline(extractor *fakeExtractor, client *fakeLLM) *Pipeline {
	return &Pipeline{
		Policy:    validate.NewPolicy(validate.OCRFormats, validate.MaxDocumentBytes),
		Extractor: extractor,
		LLM:       client,
	}
}

func TestProcessRejectsBadExtensionBeforeAnyProviderCall(t *testing.T) {
	extractor := &fakeExtractor{}
	client := &fakeLLM{}
	pipe := newPipeline(extractor, client)

	_, err := pipe.Process(context.Background(), []byte("data"), "policy.exe")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if extractor.called || client.called {
		t.Fatal("no provider call may happen for a rejected document")
	}
}

func TestProcessRejectsOversizeBeforeAnyProviderCall(t *testing.T) {
	extractor := &fakeExtractor{}
	client := &fakeLLM{}
	pipe := &Pipeline{
		Policy:    validate.NewPolicy(validate.OCRFormats, 10),
		Extractor: extractor,
		LLM:       client,
	}

	_, err := pipe.Process(context.Background(), []byte("more than ten bytes"), "policy.pdf")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if extractor.called || client.called {
		t.Fatal("no provider call may happen for an oversize document")
	}
}

func TestProcessNoContentSkipsLLM(t *testing.T) {
	client := &fakeLLM{}
	pipe := newPipeline(&fakeExtractor{err: fmt.Errorf("%w: OCR returned no pages with text", extract.ErrNoContent)}, client)

	_, err := pipe.Process(context.Background(), []byte("data"), "policy.pdf")
	if !errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
	if client.called {
		t.Fatal("LLM stage must not run when extraction produced nothing")
	}
}

func TestProcessWhitespaceTextSkipsLLM(t *testing.T) {
	client := &fakeLLM{}
	pipe := newPipeline(&fakeExtractor{text: "  \n\t "}, client)

	_, err := pipe.Process(context.Background(), []byte("data"), "policy.pdf")
	if !errors.Is(err, ErrNoExtractableText) {
		t.Fatalf("expected ErrNoExtractableText, got %v", err)
	}
	if client.called {
		t.Fatal("LLM stage must not run on whitespace-only text")
	}
}

func TestProcessExtractionProviderFailure(t *testing.T) {
	pipe := newPipeline(&fakeExtractor{err: fmt.Errorf("%w: boom", extract.ErrProvider)}, &fakeLLM{})

	_, err := pipe.Process(context.Background(), []byte("data"), "policy.pdf")
	if !errors.Is(err, ErrUpstreamFailure) {
		t.Fatalf("expected ErrUpstreamFailure, got %v", err)
	}
}

func TestProcessLLMFailures(t *testing.T) {
	cases := []struct {
		name string
		llm  *fakeLLM
		want error
	}{
		{"transport", &fakeLLM{err: errors.New("connection refused")}, ErrUpstreamFailure},
		{"malformed", &fakeLLM{err: fmt.Errorf("%w: prose", llm.ErrMalformedOutput)}, ErrMalformedOutput},
		{"bad json", &fakeLLM{raw: json.RawMessage(`[1,2,3]`)}, ErrMalformedOutput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipe := newPipeline(&fakeExtractor{text: "document text"}, tc.llm)
			_, err := pipe.Process(context.Background(), []byte("data"), "policy.pdf")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestProcessEndToEnd(t *testing.T) {
	raw := json.RawMessage(`{
		"name": "John Doe",
		"policy_number": "P/161130/01/2021/074677",
		"email": "john.doe@email.com",
		"policy_name": "Family Health Optima Insurance Plan",
		"plan_type": "SHAHLIP21211V042021",
		"sum_assured": "Rs. 500000",
		"room_rent_limit": "Single Private AC",
		"waiting_period": "30 days"
	}`)
	pipe := newPipeline(&fakeExtractor{text: "# Page 1\n\n# Page 2"}, &fakeLLM{raw: raw})

	rec, err := pipe.Process(context.Background(), []byte("%PDF-1.4"), "policy.pdf")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if rec.Name == nil || *rec.Name != "John Doe" {
		t.Fatalf("unexpected name: %v", rec.Name)
	}
	if rec.WaitingPeriod == nil || *rec.WaitingPeriod != "30 days" {
		t.Fatalf("unexpected waiting_period: %v", rec.WaitingPeriod)
	}
}

func TestProcessTextEmptyRejected(t *testing.T) {
	client := &fakeLLM{}
	pipe := newPipeline(&fakeExtractor{}, client)

	_, err := pipe.ProcessText(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if client.called {
		t.Fatal("LLM must not run on empty text")
	}
}

func TestProcessTextSuccess(t *testing.T) {
	pipe := newPipeline(&fakeExtractor{}, &fakeLLM{raw: json.RawMessage(`{"name":"Jane"}`)})

	rec, err := pipe.ProcessText(context.Background(), "Policy Holder Name: Jane")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if rec.Name == nil || *rec.Name != "Jane" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.PolicyNumber != nil {
		t.Fatal("expected missing keys normalized to null")
	}
}
