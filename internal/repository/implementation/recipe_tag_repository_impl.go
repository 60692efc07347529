package implementation

import (
	"context"
	"errors"

	"recipebot/internal/entity"
	"recipebot/internal/mapper"
	"recipebot/internal/model"
	"recipebot/internal/repository/contract"
	"recipebot/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeTagRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.RecipeTagMapper
}

func NewRecipeTagRepository(db *gorm.DB) contract.RecipeTagRepository {
	return &RecipeTagRepositoryImpl{
		db:     db,
		mapper: mapper.NewRecipeTagMapper(),
	}
}

func (r *RecipeTagRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RecipeTagRepositoryImpl) Create(ctx context.Context, tag *entity.RecipeTag) error {
	m := r.mapper.ToModel(tag)
	// DO NOTHING keeps an enclosing transaction usable when the name is taken.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return contract.ErrAlreadyExists
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return contract.ErrAlreadyExists
	}
	*tag = *r.mapper.ToEntity(m)
	return nil
}

func (r *RecipeTagRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RecipeTag, error) {
	var m model.RecipeTag
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *RecipeTagRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RecipeTag, error) {
	var models []*model.RecipeTag
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
