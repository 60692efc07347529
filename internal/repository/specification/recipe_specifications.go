package specification

import "gorm.io/gorm"

type ByCategories struct {
	Categories []string
}

func (s ByCategories) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Categories) == 0 {
		return db
	}
	return db.Where("category IN ?", s.Categories)
}

// WithAnyTagNames keeps recipes linked to at least one of the owner's tags.
type WithAnyTagNames struct {
	UserID int64
	Names  []string
}

func (s WithAnyTagNames) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Names) == 0 {
		return db
	}
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table("recipe_tag_links").
		Select("recipe_tag_links.recipe_id").
		Joins("JOIN recipe_tags ON recipe_tags.id = recipe_tag_links.tag_id").
		Where("recipe_tags.user_id = ? AND recipe_tags.name IN ?", s.UserID, s.Names)
	return db.Where("id IN (?)", sub)
}

type PreloadTags struct{}

func (s PreloadTags) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("name ASC")
	})
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

type ByTelegramID struct {
	TelegramID int64
}

func (s ByTelegramID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("telegram_id = ?", s.TelegramID)
}
