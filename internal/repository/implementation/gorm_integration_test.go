package implementation_test

import (
	"context"
	"log"
	"os"
	"testing"

	"recipebot/internal/entity"
	"recipebot/internal/model"
	"recipebot/internal/pkg/logger"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/implementation"
	"recipebot/internal/repository/specification"
	"recipebot/internal/repository/unitofwork"
	"recipebot/internal/service"
	"recipebot/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestGormRecipeLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := int64(900000000 + os.Getpid())

	t.Cleanup(func() {
		db.Exec("DELETE FROM recipe_tag_links WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)", owner)
		db.Exec("DELETE FROM recipes WHERE user_id = ?", owner)
		db.Exec("DELETE FROM recipe_tags WHERE user_id = ?", owner)
		db.Exec("DELETE FROM users WHERE telegram_id = ?", owner)
	})

	factory := unitofwork.NewRepositoryFactory(db)
	users := service.NewUserService(factory, nil, nil, logger.NewNopLogger())
	recipes := service.NewRecipeService(factory, nil, nil, logger.NewNopLogger())

	_, err := users.Register(ctx, &entity.User{TelegramId: owner, FirstName: "Integration"})
	require.NoError(t, err)
	registered, err := users.IsRegistered(ctx, owner)
	require.NoError(t, err)
	assert.True(t, registered)

	servings := 2
	soup, err := recipes.Add(ctx, &entity.Recipe{
		Title:       "Tomato soup",
		Ingredients: []entity.Ingredient{{Name: "tomatoes", Quantity: "6"}, {Name: "basil"}},
		Steps:       []string{"roast", "blend"},
		Category:    entity.CategoryDinner,
		Servings:    &servings,
		UserId:      owner,
		Tags:        []string{"soup", "quick"},
	})
	require.NoError(t, err)

	_, err = recipes.Add(ctx, &entity.Recipe{
		Title:       "Overnight oats",
		Ingredients: []entity.Ingredient{{Name: "oats"}},
		Steps:       []string{"soak"},
		Category:    entity.CategoryBreakfast,
		UserId:      owner,
		Tags:        []string{"quick"},
	})
	require.NoError(t, err)

	t.Run("tags are per owner and deduplicated", func(t *testing.T) {
		tags, err := recipes.OwnerTags(ctx, owner)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"quick", "soup"}, tags)

		again, err := recipes.GetOrCreateTag(ctx, owner, "Soup")
		require.NoError(t, err)
		assert.Equal(t, "soup", again.Name)
	})

	t.Run("filter by category and tag", func(t *testing.T) {
		got, err := recipes.ListFiltered(ctx, entity.RecipeFilter{
			UserId:     owner,
			TagNames:   []string{"quick"},
			Categories: []entity.Category{entity.CategoryDinner},
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, soup.Id, got[0].Id)
		assert.Equal(t, []entity.Ingredient{{Name: "tomatoes", Quantity: "6"}, {Name: "basil"}}, got[0].Ingredients)
	})

	t.Run("update and delete", func(t *testing.T) {
		soup.Notes = "Better the next day"
		require.NoError(t, recipes.Update(ctx, soup))

		got, err := recipes.Get(ctx, owner, soup.Id)
		require.NoError(t, err)
		assert.Equal(t, "Better the next day", got.Notes)

		require.NoError(t, recipes.Delete(ctx, owner, soup.Id))
		all, err := recipes.ListByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestGormDuplicateTagKeepsTransactionUsable(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	owner := int64(910000000 + os.Getpid())

	t.Cleanup(func() {
		db.Exec("DELETE FROM recipe_tags WHERE user_id = ?", owner)
	})

	err := db.Transaction(func(tx *gorm.DB) error {
		repo := implementation.NewRecipeTagRepository(tx)
		require.NoError(t, repo.Create(ctx, &entity.RecipeTag{Id: uuid.New(), Name: "spicy", UserId: owner}))

		err := repo.Create(ctx, &entity.RecipeTag{Id: uuid.New(), Name: "spicy", UserId: owner})
		assert.ErrorIs(t, err, contract.ErrAlreadyExists)

		found, err := repo.FindOne(ctx, specification.OwnedBy{UserID: owner}, specification.ByName{Name: "spicy"})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "spicy", found.Name)
		return nil
	})
	require.NoError(t, err)

	all, err := implementation.NewRecipeTagRepository(db).FindAll(ctx, specification.OwnedBy{UserID: owner})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
