package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/askpanel/panel/services/providers"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
)

// GeminiAdapter implements the provider adapter for the Gemini
// generateContent API. Two things set it apart from the other
// providers: the API key travels as a query parameter rather than a
// header, and structured output is requested through generationConfig
// with a response schema and a JSON mime type.
type GeminiAdapter struct {
	config providers.Config
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(config providers.Config) *GeminiAdapter {
	config.Name = "gemini"
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	return &GeminiAdapter{config: config}
}

// Name returns the provider name
func (a *GeminiAdapter) Name() string {
	return "gemini"
}

// Config returns the static provider configuration
func (a *GeminiAdapter) Config() providers.Config {
	return a.config
}

// Endpoint returns the generateContent URL without the credential
func (a *GeminiAdapter) Endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", a.config.BaseURL, a.config.Model)
}

// BuildURL appends the API key as a query parameter
func (a *GeminiAdapter) BuildURL(key string) string {
	return a.Endpoint() + "?key=" + key
}

// BuildHeaders returns an empty header set; the credential is carried
// in the URL.
func (a *GeminiAdapter) BuildHeaders(key string) http.Header {
	return http.Header{}
}

// BuildBody converts the question and schema into a generateContent
// request with JSON output enforced via generationConfig.
func (a *GeminiAdapter) BuildBody(question string, schema interface{}) (interface{}, error) {
	return &GeminiGenerateRequest{
		Contents: []GeminiContent{
			{Parts: []GeminiPart{{Text: question}}},
		},
		GenerationConfig: &GeminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
		},
	}, nil
}

// ParseResponse extracts the first candidate's text part and parses it
// as the structured answer.
func (a *GeminiAdapter) ParseResponse(body []byte) (interface{}, error) {
	var resp GeminiGenerateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected gemini response shape: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, errors.New("gemini response has no candidates")
	}

	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil, errors.New("gemini response has no content parts")
	}

	for _, part := range parts {
		if part.Text != "" {
			return providers.ParseJSON(part.Text)
		}
	}

	return nil, errors.New("gemini response has no text part")
}

// Gemini-specific request/response types

type GeminiGenerateRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GeminiGenerationConfig struct {
	ResponseMimeType string      `json:"responseMimeType,omitempty"`
	ResponseSchema   interface{} `json:"responseSchema,omitempty"`
}

type GeminiGenerateResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}
