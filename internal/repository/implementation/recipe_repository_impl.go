package implementation

import (
	"context"
	"errors"

	"recipebot/internal/entity"
	"recipebot/internal/mapper"
	"recipebot/internal/model"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecipeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecipeMapper
}

func NewRecipeRepository(db *gorm.DB) contract.RecipeRepository {
	return &RecipeRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecipeMapper(),
	}
}

func (r *RecipeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecipeRepositoryImpl) ownerTags(ctx context.Context, userID int64, names []string) ([]*model.RecipeTag, error) {
	var tags []*model.RecipeTag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name IN ?", userID, names).
		Find(&tags).Error
	return tags, err
}

func (r *RecipeRepositoryImpl) Create(ctx context.Context, recipe *entity.Recipe) error {
	m := r.mapper.ToModel(recipe)
	tags, err := r.ownerTags(ctx, recipe.UserId, recipe.Tags)
	if err != nil {
		return err
	}
	m.Tags = tags

	// Tags already exist; only the link rows are written
	if err := r.db.WithContext(ctx).Omit("Tags.*").Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return contract.ErrAlreadyExists
		}
		return err
	}
	*recipe = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeRepositoryImpl) Update(ctx context.Context, recipe *entity.Recipe) error {
	m := r.mapper.ToModel(recipe)
	if err := r.db.WithContext(ctx).Omit("Tags").Save(m).Error; err != nil {
		return err
	}

	tags, err := r.ownerTags(ctx, recipe.UserId, recipe.Tags)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(m).Omit("Tags.*").Association("Tags").Replace(tags); err != nil {
		return err
	}
	m.Tags = tags
	*recipe = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Selecting the association also removes its link rows
	return r.db.WithContext(ctx).Select("Tags").Delete(&model.Recipe{Id: id}).Error
}

func (r *RecipeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Recipe, error) {
	var m model.Recipe
	query := r.applySpecifications(specification.PreloadTags{}.Apply(r.db.WithContext(ctx)), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecipeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Recipe, error) {
	var models []*model.Recipe
	query := r.applySpecifications(specification.PreloadTags{}.Apply(r.db.WithContext(ctx)), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *RecipeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Recipe{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
