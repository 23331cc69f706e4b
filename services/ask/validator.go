package ask

import (
	"strings"

	"github.com/askpanel/panel/services"
)

// ParseQuery validates a decoded request payload and normalizes it into
// a Query. The handler passes nil when the body was absent or not a
// JSON object. The question must be a non-blank string; schema and
// api_keys are carried through without further validation, malformed
// credential values only surface later during key resolution.
func ParseQuery(payload map[string]interface{}) (*Query, error) {
	if payload == nil {
		return nil, services.ErrInvalidPayload
	}

	raw, ok := payload["query"]
	if !ok {
		return nil, services.ErrMissingQuery
	}

	question, ok := raw.(string)
	if !ok {
		return nil, services.ErrMissingQuery
	}

	if strings.TrimSpace(question) == "" {
		return nil, services.ErrEmptyQuery
	}

	query := &Query{
		Question: question,
		Schema:   payload["schema"],
	}
	if keys, ok := payload["api_keys"].(map[string]interface{}); ok {
		query.APIKeys = keys
	}

	return query, nil
}
