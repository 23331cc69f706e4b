package deepseek

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/askpanel/panel/services/providers"
)

const (
	defaultBaseURL = "https://api.deepseek.com"
	defaultModel   = "deepseek-chat"
)

// DeepSeekAdapter implements the provider adapter for the DeepSeek chat
// completions API. The wire format is OpenAI compatible, but the API
// only supports json_object output, not full JSON schema enforcement.
// The schema is therefore inlined into the prompt and json_object mode
// keeps the reply parseable.
type DeepSeekAdapter struct {
	config providers.Config
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(config providers.Config) *DeepSeekAdapter {
	config.Name = "deepseek"
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	return &DeepSeekAdapter{config: config}
}

// Name returns the provider name
func (a *DeepSeekAdapter) Name() string {
	return "deepseek"
}

// Config returns the static provider configuration
func (a *DeepSeekAdapter) Config() providers.Config {
	return a.config
}

// Endpoint returns the chat completions URL
func (a *DeepSeekAdapter) Endpoint() string {
	return a.config.BaseURL + "/chat/completions"
}

// BuildHeaders returns bearer token authentication headers
func (a *DeepSeekAdapter) BuildHeaders(key string) http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+key)
	return headers
}

// BuildBody inlines the schema into the prompt and requests json_object
// output mode.
func (a *DeepSeekAdapter) BuildBody(question string, schema interface{}) (interface{}, error) {
	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schema does not marshal: %w", err)
	}

	prompt := question +
		"\n\nRespond only with a JSON object that conforms to this JSON schema:\n" +
		string(schemaJSON)

	return &DeepSeekChatRequest{
		Model: a.config.Model,
		Messages: []DeepSeekMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &DeepSeekResponseFormat{Type: "json_object"},
	}, nil
}

// ParseResponse extracts the first choice's message content and parses
// it as the structured answer.
func (a *DeepSeekAdapter) ParseResponse(body []byte) (interface{}, error) {
	var resp DeepSeekChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected deepseek response shape: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("deepseek response has no choices")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil, errors.New("deepseek response has no message content")
	}

	return providers.ParseJSON(content)
}

// DeepSeek-specific request/response types

type DeepSeekChatRequest struct {
	Model          string                  `json:"model"`
	Messages       []DeepSeekMessage       `json:"messages"`
	ResponseFormat *DeepSeekResponseFormat `json:"response_format,omitempty"`
}

type DeepSeekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type DeepSeekResponseFormat struct {
	Type string `json:"type"`
}

type DeepSeekChatResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []DeepSeekChoice `json:"choices"`
}

type DeepSeekChoice struct {
	Index        int             `json:"index"`
	Message      DeepSeekMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}
