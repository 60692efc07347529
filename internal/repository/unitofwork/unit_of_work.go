package unitofwork

import (
	"context"

	"recipebot/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	RecipeRepository() contract.RecipeRepository
	RecipeTagRepository() contract.RecipeTagRepository
}
