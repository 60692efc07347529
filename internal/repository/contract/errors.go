package contract

import "errors"

var (
	ErrRecipeNotFound = errors.New("recipe not found or access denied")
	ErrAlreadyExists  = errors.New("record already exists")
)
