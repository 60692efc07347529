package dto

import "github.com/google/uuid"

// RecipeCreatedMessage travels on the in-process event bus.
type RecipeCreatedMessage struct {
	RecipeId uuid.UUID `json:"recipe_id"`
	UserId   int64     `json:"user_id"`
	Title    string    `json:"title"`
	Source   string    `json:"source"`
}

type RecipeStatsResponse struct {
	Total    int64            `json:"total"`
	BySource map[string]int64 `json:"by_source"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
