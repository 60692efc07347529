package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"recipebot/internal/pkg/logger"
	"recipebot/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	repo := NewSessionRepository(client, time.Hour, logger.NewNopLogger())

	s := store.NewSession(424242, 424242)
	s.Begin(store.WorkflowSearch)
	s.SelectedTags.Add("quick")
	s.SelectedCategories.Add("DINNER")
	require.NoError(t, repo.Put(ctx, s, time.Minute))

	got, ok, err := repo.Get(ctx, s.Key())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.WorkflowSearch, got.Workflow)
	assert.Equal(t, store.StateSearchModeSelection, got.State)
	assert.Equal(t, store.Selection{"quick"}, got.SelectedTags)
	assert.Equal(t, store.Selection{"DINNER"}, got.SelectedCategories)

	require.NoError(t, repo.Clear(ctx, s.Key()))
	_, ok, err = repo.Get(ctx, s.Key())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepositoryDiscardsUnreadableValue(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Skipping integration test: REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	repo := NewSessionRepository(client, time.Hour, logger.NewNopLogger())
	key := store.Key(434343, 434343)
	require.NoError(t, client.Set(ctx, keyPrefix+key, "{not json", time.Minute).Err())

	got, ok, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	n, err := client.Exists(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
