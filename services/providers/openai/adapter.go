package openai

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/askpanel/panel/services/providers"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
)

// OpenAIAdapter implements the provider adapter for the OpenAI chat
// completions API. Structured output is requested through the
// response_format field with a strict JSON schema; the answer comes
// back as a JSON document embedded in the first choice's message
// content, which ParseResponse re-parses.
type OpenAIAdapter struct {
	config providers.Config
}

// NewOpenAIAdapter creates a new OpenAI adapter
func NewOpenAIAdapter(config providers.Config) *OpenAIAdapter {
	config.Name = "openai"
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	return &OpenAIAdapter{config: config}
}

// Name returns the provider name
func (a *OpenAIAdapter) Name() string {
	return "openai"
}

// Config returns the static provider configuration
func (a *OpenAIAdapter) Config() providers.Config {
	return a.config
}

// Endpoint returns the chat completions URL
func (a *OpenAIAdapter) Endpoint() string {
	return a.config.BaseURL + "/chat/completions"
}

// BuildHeaders returns bearer token authentication headers
func (a *OpenAIAdapter) BuildHeaders(key string) http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+key)
	return headers
}

// BuildBody converts the question and schema into a chat completion
// request that demands schema conformant JSON output.
func (a *OpenAIAdapter) BuildBody(question string, schema interface{}) (interface{}, error) {
	return &OpenAIChatRequest{
		Model: a.config.Model,
		Messages: []OpenAIMessage{
			{Role: "user", Content: question},
		},
		ResponseFormat: &OpenAIResponseFormat{
			Type: "json_schema",
			JSONSchema: &OpenAIJSONSchema{
				Name:   "response",
				Schema: schema,
				Strict: true,
			},
		},
	}, nil
}

// ParseResponse extracts the first choice's message content and parses
// it as the structured answer.
func (a *OpenAIAdapter) ParseResponse(body []byte) (interface{}, error) {
	var resp OpenAIChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected openai response shape: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("openai response has no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, errors.New("openai response has no message content")
	}

	return providers.ParseJSON(content)
}

// OpenAI-specific request/response types

type OpenAIChatRequest struct {
	Model          string                `json:"model"`
	Messages       []OpenAIMessage       `json:"messages"`
	ResponseFormat *OpenAIResponseFormat `json:"response_format,omitempty"`
}

type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *OpenAIJSONSchema `json:"json_schema,omitempty"`
}

type OpenAIJSONSchema struct {
	Name   string      `json:"name"`
	Schema interface{} `json:"schema"`
	Strict bool        `json:"strict"`
}

type OpenAIChatResponse struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
	Usage   OpenAIUsage    `json:"usage"`
}

type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
