package anthropic

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/askpanel/panel/services/providers"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-haiku-20240307"

	// apiVersion is the pinned Messages API revision.
	apiVersion = "2023-06-01"

	// answerToolName is the forced tool whose input schema carries the
	// caller's output schema. Claude returns the structured answer as
	// the tool_use input, already parsed.
	answerToolName = "record_answer"

	defaultMaxTokens = 1024
)

// AnthropicAdapter implements the provider adapter for the Anthropic
// Messages API. Structured output is obtained through forced tool use:
// the request declares a single tool whose input schema is the caller's
// output schema, and tool_choice pins the model to it.
type AnthropicAdapter struct {
	config providers.Config
}

// NewAnthropicAdapter creates a new Anthropic adapter
func NewAnthropicAdapter(config providers.Config) *AnthropicAdapter {
	config.Name = "anthropic"
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	return &AnthropicAdapter{config: config}
}

// Name returns the provider name
func (a *AnthropicAdapter) Name() string {
	return "anthropic"
}

// Config returns the static provider configuration
func (a *AnthropicAdapter) Config() providers.Config {
	return a.config
}

// Endpoint returns the messages URL
func (a *AnthropicAdapter) Endpoint() string {
	return a.config.BaseURL + "/v1/messages"
}

// BuildHeaders returns the x-api-key and pinned version headers
func (a *AnthropicAdapter) BuildHeaders(key string) http.Header {
	headers := http.Header{}
	headers.Set("x-api-key", key)
	headers.Set("anthropic-version", apiVersion)
	return headers
}

// BuildBody converts the question and schema into a messages request
// with a single forced tool carrying the schema.
func (a *AnthropicAdapter) BuildBody(question string, schema interface{}) (interface{}, error) {
	return &AnthropicMessageRequest{
		Model:     a.config.Model,
		MaxTokens: defaultMaxTokens,
		Messages: []AnthropicMessage{
			{Role: "user", Content: question},
		},
		Tools: []AnthropicTool{
			{
				Name:        answerToolName,
				Description: "Record the structured answer to the user's question.",
				InputSchema: schema,
			},
		},
		ToolChoice: &AnthropicToolChoice{
			Type: "tool",
			Name: answerToolName,
		},
	}, nil
}

// ParseResponse extracts the tool_use input as the structured answer.
// If the model answered in text despite the forced tool, the text is
// parsed as JSON instead.
func (a *AnthropicAdapter) ParseResponse(body []byte) (interface{}, error) {
	var resp AnthropicMessageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unexpected anthropic response shape: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, errors.New("anthropic response has no content")
	}

	for _, block := range resp.Content {
		if block.Type == "tool_use" && block.Name == answerToolName {
			if block.Input == nil {
				return nil, errors.New("anthropic tool_use block has no input")
			}
			return block.Input, nil
		}
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, errors.New("anthropic response has no tool_use or text content")
	}

	return providers.ParseJSON(text.String())
}

// Anthropic-specific request/response types

type AnthropicMessageRequest struct {
	Model      string               `json:"model"`
	MaxTokens  int                  `json:"max_tokens"`
	Messages   []AnthropicMessage   `json:"messages"`
	Tools      []AnthropicTool      `json:"tools,omitempty"`
	ToolChoice *AnthropicToolChoice `json:"tool_choice,omitempty"`
}

type AnthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicTool struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	InputSchema interface{} `json:"input_schema"`
}

type AnthropicToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

type AnthropicMessageResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	Role       string                  `json:"role"`
	Content    []AnthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
}

type AnthropicContentBlock struct {
	Type  string      `json:"type"`
	Text  string      `json:"text,omitempty"`
	Name  string      `json:"name,omitempty"`
	Input interface{} `json:"input,omitempty"`
}
