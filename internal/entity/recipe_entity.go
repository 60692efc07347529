package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryBreakfast Category = "BREAKFAST"
	CategoryLunch     Category = "LUNCH"
	CategoryDinner    Category = "DINNER"
	CategoryDessert   Category = "DESSERT"
	CategoryCocktail  Category = "COCKTAIL"
)

var categories = []Category{
	CategoryBreakfast,
	CategoryLunch,
	CategoryDinner,
	CategoryDessert,
	CategoryCocktail,
}

func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s case-insensitively against the fixed enumeration.
func ParseCategory(s string) (Category, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, c := range categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

type RecipeSource string

const (
	SourceManual       RecipeSource = "manual"
	SourceTikTokAuto   RecipeSource = "tiktok_auto"
	SourceTikTokManual RecipeSource = "tiktok_manual"
)

type Ingredient struct {
	Name     string `validate:"required"`
	Quantity string
	Unit     string
	Group    string
}

type Recipe struct {
	Id            uuid.UUID
	Title         string       `validate:"required,max=255"`
	Ingredients   []Ingredient `validate:"required,min=1,dive"`
	Steps         []string     `validate:"required,min=1"`
	Category      Category     `validate:"required,oneof=BREAKFAST LUNCH DINNER DESSERT COCKTAIL"`
	Servings      *int         `validate:"omitempty,min=1"`
	Description   string
	EstimatedTime string
	Notes         string
	Link          string `validate:"omitempty,url"`
	Source        RecipeSource
	UserId        int64 `validate:"required"`
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

type RecipeTag struct {
	Id        uuid.UUID
	Name      string
	UserId    int64
	CreatedAt time.Time
}

// RecipeFilter narrows an owner's recipes. Empty facets do not filter.
type RecipeFilter struct {
	UserId     int64
	TagNames   []string
	Categories []Category
}
