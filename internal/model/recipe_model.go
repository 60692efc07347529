package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"qty,omitempty"`
	Unit     string `json:"unit,omitempty"`
	Group    string `json:"group,omitempty"`
}

type Recipe struct {
	Id            uuid.UUID                       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string                          `gorm:"type:varchar(255);not null"`
	Ingredients   datatypes.JSONSlice[Ingredient] `gorm:"type:jsonb;not null"`
	Steps         datatypes.JSONSlice[string]     `gorm:"type:jsonb;not null"`
	Category      string                          `gorm:"type:varchar(50);not null;index"`
	Servings      *int
	Description   string       `gorm:"type:text"`
	EstimatedTime string       `gorm:"type:varchar(100)"`
	Notes         string       `gorm:"type:text"`
	Link          string       `gorm:"type:text"`
	Source        string       `gorm:"type:varchar(50);not null;default:'manual'"`
	UserId        int64        `gorm:"not null;index"`
	Tags          []*RecipeTag `gorm:"many2many:recipe_tag_links;joinForeignKey:recipe_id;joinReferences:tag_id"`
	CreatedAt     time.Time    `gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime"`
}

func (Recipe) TableName() string {
	return "recipes"
}

type RecipeTag struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_recipe_tag_owner_name"`
	UserId    int64     `gorm:"not null;uniqueIndex:idx_recipe_tag_owner_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
