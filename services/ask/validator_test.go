package ask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askpanel/panel/services"
)

func TestParseQuery_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		wantErr error
	}{
		{
			name:    "nil payload",
			payload: nil,
			wantErr: services.ErrInvalidPayload,
		},
		{
			name:    "query missing",
			payload: map[string]interface{}{"schema": map[string]interface{}{}},
			wantErr: services.ErrMissingQuery,
		},
		{
			name:    "query is a number",
			payload: map[string]interface{}{"query": 42.0},
			wantErr: services.ErrMissingQuery,
		},
		{
			name:    "query is null",
			payload: map[string]interface{}{"query": nil},
			wantErr: services.ErrMissingQuery,
		},
		{
			name:    "query is empty",
			payload: map[string]interface{}{"query": ""},
			wantErr: services.ErrEmptyQuery,
		},
		{
			name:    "query is whitespace only",
			payload: map[string]interface{}{"query": "   \t\n  "},
			wantErr: services.ErrEmptyQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := ParseQuery(tt.payload)

			assert.Nil(t, query)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, services.IsValidationError(err))
		})
	}
}

func TestParseQuery_Valid(t *testing.T) {
	t.Run("minimal payload", func(t *testing.T) {
		query, err := ParseQuery(map[string]interface{}{"query": "What is the capital of France?"})

		require.NoError(t, err)
		assert.Equal(t, "What is the capital of France?", query.Question)
		assert.Nil(t, query.Schema)
		assert.Nil(t, query.APIKeys)
	})

	t.Run("full payload", func(t *testing.T) {
		schema := map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"answer": map[string]interface{}{"type": "string"},
			},
		}
		apiKeys := map[string]interface{}{
			"openai":    "sk-test",
			"anthropic": nil,
		}

		query, err := ParseQuery(map[string]interface{}{
			"query":    "Why is the sky blue?",
			"schema":   schema,
			"api_keys": apiKeys,
		})

		require.NoError(t, err)
		assert.Equal(t, "Why is the sky blue?", query.Question)
		assert.Equal(t, schema, query.Schema)
		assert.Equal(t, apiKeys, query.APIKeys)
	})

	t.Run("question kept verbatim", func(t *testing.T) {
		query, err := ParseQuery(map[string]interface{}{"query": "  padded question  "})

		require.NoError(t, err)
		assert.Equal(t, "  padded question  ", query.Question)
	})

	t.Run("non-object api_keys treated as absent", func(t *testing.T) {
		query, err := ParseQuery(map[string]interface{}{
			"query":    "hello",
			"api_keys": "not-an-object",
		})

		require.NoError(t, err)
		assert.Nil(t, query.APIKeys)
	})

	t.Run("unexpected extra fields ignored", func(t *testing.T) {
		query, err := ParseQuery(map[string]interface{}{
			"query":   "hello",
			"verbose": true,
			"depth":   3.0,
		})

		require.NoError(t, err)
		assert.Equal(t, "hello", query.Question)
	})
}
