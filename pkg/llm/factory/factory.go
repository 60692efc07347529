package factory

import (
	"fmt"
	"time"

	"recipebot/pkg/llm"
	"recipebot/pkg/llm/ollama"
	"recipebot/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case "groq", "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("%s provider requires an API key", providerType)
		}
		if baseURL == "" && providerType == "openai" {
			baseURL = "https://api.openai.com/v1"
		}
		return openai.NewProvider(apiKey, baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
