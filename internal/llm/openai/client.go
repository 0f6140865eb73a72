package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"policy-backend/internal/llm"
	"policy-backend/internal/shared/telemetry"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	extractionMaxTokens = 1000
	transcribeMaxTokens = 4096
)

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

const defaultTimeout = 120 * time.Second

// NewClient constructs a new OpenAI client. A non-positive timeout falls
// back to the default.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ExtractFields sends the rulebook plus the document text and returns the
// raw JSON object the model produced. Sampling is pinned to temperature
// zero and the provider is constrained to json_object output; a single
// attempt is made, with a defensive salvage pass when the surrounding text
// is not valid JSON.
func (c *Client) ExtractFields(ctx context.Context, documentText string) (json.RawMessage, error) {
	messages := BuildExtractionPrompt(documentText)
	content, err := c.completeOnce(ctx, messages, extractionMaxTokens, true)
	if err != nil {
		return nil, err
	}

	raw := json.RawMessage(content)
	if json.Valid(raw) {
		return raw, nil
	}
	if salvaged, ok := extractJSONObject(content); ok {
		return salvaged, nil
	}
	return nil, fmt.Errorf("%w: %.120s", llm.ErrMalformedOutput, content)
}

// TranscribeImage asks the vision-capable model to transcribe all text from
// a single document image, preserving structure. Used by the native
// extraction strategy for image inputs.
func (c *Client) TranscribeImage(ctx context.Context, imageData []byte, mimeType string) (string, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)
	messages := []chatMessage{
		{Role: "system", Content: transcribeSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: transcribeUserPrompt},
			{Type: "image_url", ImageURL: &imageURL{
				URL:    "data:" + mimeType + ";base64," + encoded,
				Detail: "high",
			}},
		}},
	}
	return c.completeOnce(ctx, messages, transcribeMaxTokens, false)
}

func (c *Client) completeOnce(ctx context.Context, messages []chatMessage, maxTokens int, jsonMode bool) (string, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content")
	}
	logUsage(c.model, parsed)
	return content, nil
}

// extractJSONObject locates the outermost JSON object in free text, for
// providers that wrap output in prose or code fences despite json_object.
func extractJSONObject(content string) (json.RawMessage, bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := json.RawMessage(content[start : end+1])
	if !json.Valid(candidate) {
		return nil, false
	}
	return candidate, true
}

func logUsage(model string, parsed chatResponse) {
	fields := map[string]any{"model": model}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
