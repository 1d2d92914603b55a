package gemini

// DTO for the Gemini generateContent API. Content and part shapes come from
// the genai SDK; only the request envelope is owned here.

import (
	"encoding/json"

	"google.golang.org/genai"
)

// GenerateContentRequest is the payload POSTed to models/<model>:generateContent.
type GenerateContentRequest struct {
	Contents          []*genai.Content  `json:"contents"`
	SystemInstruction *genai.Content    `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	// Tools are passed through from the inbound request untouched.
	Tools         json.RawMessage `json:"tools,omitempty"`
	CachedContent string          `json:"cachedContent,omitempty"`
}

// GenerationConfig carries the generation knobs this gateway forwards.
type GenerationConfig struct {
	Temperature        *float64              `json:"temperature,omitempty"`
	ThinkingConfig     *genai.ThinkingConfig `json:"thinkingConfig,omitempty"`
	ResponseModalities []string              `json:"responseModalities,omitempty"`
}
