package bot

import (
	"testing"

	"recipebot/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestSplitItems(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"flour, milk, eggs", []string{"flour", "milk", "eggs"}},
		{"1. mix\n2) cook, then serve\n\n", []string{"mix", "cook, then serve"}},
		{"- a\n• b\n* c", []string{"a", "b", "c"}},
		{" , ,", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitItems(tt.in), tt.in)
	}
}

func TestValidLink(t *testing.T) {
	assert.True(t, validLink("https://example.com/recipe"))
	assert.True(t, validLink("http://example.com"))
	assert.False(t, validLink("example.com"))
	assert.False(t, validLink("ftp://example.com/file"))
	assert.False(t, validLink("not a link"))
}

func TestApplyField(t *testing.T) {
	servings := 3
	base := func() *entity.Recipe {
		return &entity.Recipe{Title: "Soup", Description: "warm", Servings: &servings, Link: "https://a.example"}
	}

	r := base()
	assert.Empty(t, applyField(r, editField{key: "description", optional: true}, "-"))
	assert.Empty(t, r.Description)

	r = base()
	assert.Empty(t, applyField(r, editField{key: "servings", optional: true}, "-"))
	assert.Nil(t, r.Servings)

	r = base()
	assert.Equal(t, msgInvalidNumber, applyField(r, editField{key: "servings", optional: true}, "0"))
	assert.Equal(t, 3, *r.Servings)

	r = base()
	assert.Equal(t, msgEmptyValue, applyField(r, editField{key: "title"}, ""))
	assert.Equal(t, "Soup", r.Title)

	r = base()
	assert.Equal(t, msgInvalidLink, applyField(r, editField{key: "link", optional: true}, "nope"))
	assert.Empty(t, applyField(r, editField{key: "link", optional: true}, "-"))
	assert.Empty(t, r.Link)

	r = base()
	assert.Empty(t, applyField(r, editField{key: "ingredients"}, "rice\nbeans"))
	assert.Equal(t, []entity.Ingredient{{Name: "rice", Group: "Main"}, {Name: "beans", Group: "Main"}}, r.Ingredients)
}

func TestRenderRecipe(t *testing.T) {
	servings := 2
	r := &entity.Recipe{
		Title:    "Fish & Chips",
		Category: entity.CategoryDinner,
		Servings: &servings,
		Ingredients: []entity.Ingredient{
			{Name: "fish", Quantity: "200", Unit: "g", Group: "Main"},
			{Name: "flour", Group: "Batter"},
		},
		Steps: []string{"fry"},
		Link:  "https://example.com",
		Tags:  []string{"fried"},
	}

	out := renderRecipe(r)

	assert.Contains(t, out, "<b>Fish &amp; Chips</b>")
	assert.Contains(t, out, "🍝 Dinner · 👥 2 servings")
	assert.Contains(t, out, "<u>Batter</u>")
	assert.Contains(t, out, "• 200 g fish")
	assert.Contains(t, out, "1. fry")
	assert.Contains(t, out, "#fried")
}
