package openai

import (
	"fmt"

	"policy-backend/internal/llm"
	"policy-backend/internal/shared/telemetry"
)

const promptVersion = "insurance_v1"

const (
	transcribeSystemPrompt = "You are a helpful assistant that extracts text from images. Extract ALL text from the image accurately, maintaining the structure and formatting as much as possible."
	transcribeUserPrompt   = "Please extract all the text from this document image. Preserve the structure and formatting."
)

// BuildExtractionPrompt creates the chat messages for a field extraction
// request: the versioned rulebook as the system instruction, the full
// document text as user content.
func BuildExtractionPrompt(documentText string) []chatMessage {
	rulebook, ok := llm.PromptTemplate(promptVersion)
	if !ok {
		telemetry.Warn("llm.prompt.unknown_version", map[string]any{"version": promptVersion})
	}
	return []chatMessage{
		{Role: "system", Content: rulebook},
		{Role: "user", Content: buildUserPrompt(documentText)},
	}
}

func buildUserPrompt(documentText string) string {
	return fmt.Sprintf("Extract insurance data from this document text:\n\n%s", documentText)
}
