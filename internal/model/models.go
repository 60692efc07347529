package model

// All lists every table managed by migrations, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&RecipeTag{},
		&Recipe{},
	}
}
