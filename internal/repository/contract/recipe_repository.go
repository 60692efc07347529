package contract

import (
	"context"

	"recipebot/internal/entity"
	"recipebot/internal/repository/specification"

	"github.com/google/uuid"
)

type RecipeRepository interface {
	// Create links recipe.Tags to existing tags of the same owner.
	Create(ctx context.Context, recipe *entity.Recipe) error
	Update(ctx context.Context, recipe *entity.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recipe, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type RecipeTagRepository interface {
	Create(ctx context.Context, tag *entity.RecipeTag) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecipeTag, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecipeTag, error)
}
