package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipebot/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderChat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Tacos\"}"}}]}`))
	}))
	defer srv.Close()

	p := NewProvider("secret", srv.URL, "llama-3.3-70b-versatile", time.Second)
	out, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "extract"},
		{Role: "user", Content: "tacos video"},
	}, llm.WithJSONResponse())

	require.NoError(t, err)
	assert.Equal(t, `{"title":"Tacos"}`, out)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Len(t, got.Messages, 2)
}

func TestProviderChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `rate limited`, want: "status 429"},
		{name: "api error", status: http.StatusOK, body: `{"error":{"message":"bad model"}}`, want: "bad model"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, want: "empty choices"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewProvider("", srv.URL, "m", time.Second).Generate(context.Background(), "hi")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
