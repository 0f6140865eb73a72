package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProcessSuccess(t *testing.T) {
	expected := Response{
		Pages: []Page{
			{Index: 0, Markdown: "# Policy Schedule\n\nPolicy No: P/123"},
			{Index: 1, Markdown: "## Benefits"},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/ocr" {
			t.Errorf("expected /ocr, got %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("expected Bearer token in Authorization header")
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != ocrModel {
			t.Errorf("expected model %s, got %s", ocrModel, req.Model)
		}
		if req.Document.Type != "document_url" {
			t.Errorf("expected document_url type, got %s", req.Document.Type)
		}
		if !strings.HasPrefix(req.Document.DocumentURL, "data:application/pdf;base64,") {
			t.Errorf("expected pdf data URL, got prefix %.40s", req.Document.DocumentURL)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	}))
	defer server.Close()

	client, err := NewClient("test-api-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = server.URL

	resp, err := client.Process(context.Background(), []byte("%PDF-1.4 fake"), "policy.pdf")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(resp.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(resp.Pages))
	}
	if resp.Pages[0].Markdown != expected.Pages[0].Markdown {
		t.Fatal("markdown mismatch")
	}
}

func TestProcessAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "invalid api key"}`))
	}))
	defer server.Close()

	client, err := NewClient("bad-api-key")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = server.URL

	_, err = client.Process(context.Background(), []byte("%PDF-1.4 fake"), "policy.pdf")
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status 401 in error, got: %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestProcessUnknownExtensionFallsBackToOctetStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !strings.HasPrefix(req.Document.DocumentURL, "data:application/octet-stream;base64,") {
			t.Errorf("expected octet-stream data URL, got prefix %.50s", req.Document.DocumentURL)
		}
		json.NewEncoder(w).Encode(Response{})
	}))
	defer server.Close()

	client, _ := NewClient("test-api-key")
	client.baseURL = server.URL

	if _, err := client.Process(context.Background(), []byte("data"), "policy.bin"); err != nil {
		t.Fatalf("process: %v", err)
	}
}
