package mapper

import (
	"time"

	"recipebot/internal/entity"
	"recipebot/internal/model"

	"gorm.io/datatypes"
)

type RecipeMapper struct{}

func NewRecipeMapper() *RecipeMapper {
	return &RecipeMapper{}
}

func (m *RecipeMapper) ToEntity(r *model.Recipe) *entity.Recipe {
	if r == nil {
		return nil
	}

	ingredients := make([]entity.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = entity.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Group:    ing.Group,
		}
	}

	tags := make([]string, 0, len(r.Tags))
	for _, t := range r.Tags {
		tags = append(tags, t.Name)
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.Recipe{
		Id:            r.Id,
		Title:         r.Title,
		Ingredients:   ingredients,
		Steps:         append([]string(nil), r.Steps...),
		Category:      entity.Category(r.Category),
		Servings:      r.Servings,
		Description:   r.Description,
		EstimatedTime: r.EstimatedTime,
		Notes:         r.Notes,
		Link:          r.Link,
		Source:        entity.RecipeSource(r.Source),
		UserId:        r.UserId,
		Tags:          tags,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

// ToModel leaves Tags empty; tag links are resolved by the repository.
func (m *RecipeMapper) ToModel(r *entity.Recipe) *model.Recipe {
	if r == nil {
		return nil
	}

	ingredients := make(datatypes.JSONSlice[model.Ingredient], len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ingredients[i] = model.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Group:    ing.Group,
		}
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	source := r.Source
	if source == "" {
		source = entity.SourceManual
	}

	return &model.Recipe{
		Id:            r.Id,
		Title:         r.Title,
		Ingredients:   ingredients,
		Steps:         datatypes.JSONSlice[string](append([]string(nil), r.Steps...)),
		Category:      string(r.Category),
		Servings:      r.Servings,
		Description:   r.Description,
		EstimatedTime: r.EstimatedTime,
		Notes:         r.Notes,
		Link:          r.Link,
		Source:        string(source),
		UserId:        r.UserId,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updatedAt,
	}
}

func (m *RecipeMapper) ToEntities(recipes []*model.Recipe) []*entity.Recipe {
	entities := make([]*entity.Recipe, len(recipes))
	for i, r := range recipes {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

type RecipeTagMapper struct{}

func NewRecipeTagMapper() *RecipeTagMapper {
	return &RecipeTagMapper{}
}

func (m *RecipeTagMapper) ToEntity(t *model.RecipeTag) *entity.RecipeTag {
	if t == nil {
		return nil
	}
	return &entity.RecipeTag{
		Id:        t.Id,
		Name:      t.Name,
		UserId:    t.UserId,
		CreatedAt: t.CreatedAt,
	}
}

func (m *RecipeTagMapper) ToModel(t *entity.RecipeTag) *model.RecipeTag {
	if t == nil {
		return nil
	}
	return &model.RecipeTag{
		Id:        t.Id,
		Name:      t.Name,
		UserId:    t.UserId,
		CreatedAt: t.CreatedAt,
	}
}

func (m *RecipeTagMapper) ToEntities(tags []*model.RecipeTag) []*entity.RecipeTag {
	entities := make([]*entity.RecipeTag, len(tags))
	for i, t := range tags {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
