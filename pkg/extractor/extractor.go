// Package extractor turns free-form recipe text (typically a short-video
// description) into structured recipe fields with an LLM.
package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"recipebot/pkg/llm"
)

var ErrMalformedResponse = errors.New("extractor: model returned malformed JSON")

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"qty"`
	Unit     string `json:"unit"`
	Group    string `json:"group"`
}

type Fields struct {
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Servings    *int         `json:"servings"`
	Description string       `json:"desc"`
	Time        string       `json:"time"`
	Notes       string       `json:"notes"`
}

type Extractor interface {
	Extract(ctx context.Context, text string) (*Fields, error)
}

type LLMExtractor struct {
	provider llm.LLMProvider
}

func NewLLMExtractor(provider llm.LLMProvider) *LLMExtractor {
	return &LLMExtractor{provider: provider}
}

func (e *LLMExtractor) Extract(ctx context.Context, text string) (*Fields, error) {
	history := append(fewShot(), llm.Message{Role: "user", Content: text})
	out, err := e.provider.Chat(ctx, history, llm.WithJSONResponse(), llm.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("extract recipe: %w", err)
	}
	return Parse(out)
}

// Parse decodes a model answer, tolerating markdown code fences around it.
func Parse(raw string) (*Fields, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var f Fields
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	f.normalize()
	return &f, nil
}

func (f *Fields) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	kept := f.Ingredients[:0]
	for _, ing := range f.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		if ing.Group == "" {
			ing.Group = "Main"
		}
		kept = append(kept, ing)
	}
	f.Ingredients = kept

	steps := f.Steps[:0]
	for _, s := range f.Steps {
		if s = strings.TrimSpace(s); s != "" {
			steps = append(steps, s)
		}
	}
	f.Steps = steps

	if f.Servings != nil && *f.Servings < 1 {
		f.Servings = nil
	}
}
