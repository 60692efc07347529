package service

import (
	"context"
	"encoding/json"
	"testing"

	"recipebot/internal/dto"
	"recipebot/internal/entity"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pancakes(owner int64) *entity.Recipe {
	return &entity.Recipe{
		Title:       "Pancakes",
		Ingredients: []entity.Ingredient{{Name: "flour"}, {Name: "milk"}},
		Steps:       []string{"mix", "cook"},
		Category:    entity.CategoryBreakfast,
		UserId:      owner,
		Tags:        []string{"#Quick", "quick", " sweet "},
	}
}

func newRecipeService(db *memDB) (IRecipeService, *recordingBus, *recordingPublisher) {
	bus := &recordingBus{}
	nats := &recordingPublisher{}
	return NewRecipeService(memFactory{db}, bus, nats, logger.NewNopLogger()), bus, nats
}

func TestRecipeServiceAdd(t *testing.T) {
	db := newMemDB()
	svc, bus, nats := newRecipeService(db)

	r, err := svc.Add(context.Background(), pancakes(7))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, r.Id)
	assert.Equal(t, entity.SourceManual, r.Source)
	assert.Equal(t, []string{"quick", "sweet"}, r.Tags)
	assert.Len(t, db.tags, 2)

	require.Len(t, bus.payloads, 1)
	var msg dto.RecipeCreatedMessage
	require.NoError(t, json.Unmarshal(bus.payloads[0], &msg))
	assert.Equal(t, r.Id, msg.RecipeId)
	assert.Equal(t, "manual", msg.Source)

	require.Len(t, nats.events, 1)
	assert.Equal(t, events.RecipeCreated, nats.events[0].EventType())
}

func TestRecipeServiceAddValidation(t *testing.T) {
	svc, bus, _ := newRecipeService(newMemDB())

	tests := []struct {
		name   string
		mutate func(r *entity.Recipe)
	}{
		{name: "missing title", mutate: func(r *entity.Recipe) { r.Title = "" }},
		{name: "no ingredients", mutate: func(r *entity.Recipe) { r.Ingredients = nil }},
		{name: "unknown category", mutate: func(r *entity.Recipe) { r.Category = "BRUNCH" }},
		{name: "bad link", mutate: func(r *entity.Recipe) { r.Link = "not a link" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := pancakes(1)
			tt.mutate(r)
			_, err := svc.Add(context.Background(), r)
			assert.ErrorIs(t, err, ErrInvalidRecipe)
		})
	}
	assert.Empty(t, bus.payloads)
}

func TestRecipeServiceDeleteRequiresOwner(t *testing.T) {
	ctx := context.Background()
	svc, _, nats := newRecipeService(newMemDB())
	r, err := svc.Add(ctx, pancakes(7))
	require.NoError(t, err)

	err = svc.Delete(ctx, 8, r.Id)
	assert.ErrorIs(t, err, contract.ErrRecipeNotFound)

	require.NoError(t, svc.Delete(ctx, 7, r.Id))
	_, err = svc.Get(ctx, 7, r.Id)
	assert.ErrorIs(t, err, contract.ErrRecipeNotFound)

	require.Len(t, nats.events, 2)
	assert.Equal(t, events.RecipeDeleted, nats.events[1].EventType())
}

func TestRecipeServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, _, nats := newRecipeService(newMemDB())
	r, err := svc.Add(ctx, pancakes(7))
	require.NoError(t, err)

	r.Title = "Fluffy pancakes"
	r.Tags = append(r.Tags, "Brunch")
	require.NoError(t, svc.Update(ctx, r))

	got, err := svc.Get(ctx, 7, r.Id)
	require.NoError(t, err)
	assert.Equal(t, "Fluffy pancakes", got.Title)
	assert.Contains(t, got.Tags, "brunch")
	require.Len(t, nats.events, 2)
	assert.Equal(t, events.RecipeUpdated, nats.events[1].EventType())

	stranger := *r
	stranger.UserId = 8
	assert.ErrorIs(t, svc.Update(ctx, &stranger), contract.ErrRecipeNotFound)
}

func TestRecipeServiceListFiltered(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newRecipeService(newMemDB())

	_, err := svc.Add(ctx, pancakes(7))
	require.NoError(t, err)
	soup := pancakes(7)
	soup.Title = "Soup"
	soup.Category = entity.CategoryDinner
	soup.Tags = []string{"warm"}
	_, err = svc.Add(ctx, soup)
	require.NoError(t, err)

	byTag, err := svc.ListFiltered(ctx, entity.RecipeFilter{UserId: 7, TagNames: []string{"warm"}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Soup", byTag[0].Title)

	byCat, err := svc.ListFiltered(ctx, entity.RecipeFilter{UserId: 7, Categories: []entity.Category{entity.CategoryBreakfast}})
	require.NoError(t, err)
	require.Len(t, byCat, 1)
	assert.Equal(t, "Pancakes", byCat[0].Title)

	none, err := svc.ListFiltered(ctx, entity.RecipeFilter{UserId: 7, TagNames: []string{"nonexistent"}})
	require.NoError(t, err)
	assert.Empty(t, none)

	tags, err := svc.OwnerTags(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"quick", "sweet", "warm"}, tags)
}

func TestGetOrCreateTagIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	svc, _, _ := newRecipeService(db)

	a, err := svc.GetOrCreateTag(ctx, 1, "#Vegan")
	require.NoError(t, err)
	b, err := svc.GetOrCreateTag(ctx, 1, "vegan")
	require.NoError(t, err)

	assert.Equal(t, a.Id, b.Id)
	assert.Equal(t, "vegan", a.Name)
	assert.Len(t, db.tags, 1)
}
