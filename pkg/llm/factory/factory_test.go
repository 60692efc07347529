package factory

import (
	"testing"
	"time"

	"recipebot/pkg/llm/ollama"
	"recipebot/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider("ollama", "llama3", "", "", time.Second)
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	p, err = NewLLMProvider("groq", "llama-3.3-70b-versatile", "", "key", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &openai.Provider{}, p)

	_, err = NewLLMProvider("groq", "m", "", "", time.Second)
	assert.Error(t, err)

	_, err = NewLLMProvider("gemini", "m", "", "", time.Second)
	assert.ErrorContains(t, err, "unsupported")
}
