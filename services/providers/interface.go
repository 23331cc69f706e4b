// Package providers defines the adapter contract shared by the LLM
// provider integrations and the invoker that executes them. Each
// provider package (openai, anthropic, gemini, deepseek) translates the
// normalized question/schema pair into its own wire format; the Invoker
// performs the HTTP call and folds every failure mode into a
// per-provider Outcome.
package providers

import "net/http"

// Config holds the static description of one provider: its identity,
// the base URL of its API, and the model requested on every call.
type Config struct {
	Name    string `json:"name" validate:"required"`
	BaseURL string `json:"base_url" validate:"required,url"`
	Model   string `json:"model" validate:"required"`
}

// Adapter translates between the normalized request shape and one
// provider's wire format. Implementations are stateless and safe for
// concurrent use; a single instance is shared across requests.
type Adapter interface {
	// Name returns the provider identity used in outcomes, logs and metrics.
	Name() string

	// Config returns the static provider configuration.
	Config() Config

	// Endpoint returns the URL the invoker posts to.
	Endpoint() string

	// BuildHeaders returns the authentication headers for a resolved
	// credential. Providers that carry the credential elsewhere return
	// an empty header set.
	BuildHeaders(key string) http.Header

	// BuildBody maps the question and output schema into the provider's
	// request payload. The schema is passed through opaquely; adapters
	// never inspect or validate it.
	BuildBody(question string, schema interface{}) (interface{}, error)

	// ParseResponse extracts the structured answer from a raw provider
	// reply. It is only called once the reply is known to be valid JSON.
	ParseResponse(body []byte) (interface{}, error)
}

// URLBuilder is implemented by adapters whose provider expects the
// credential in the request URL rather than in a header.
type URLBuilder interface {
	BuildURL(key string) string
}

// DefaultSchema returns the output schema used when the caller does not
// supply one: an object with a single required free-text answer field.
func DefaultSchema() interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"answer": map[string]interface{}{"type": "string"},
		},
		"required": []string{"answer"},
	}
}
