package service

import "errors"

var (
	ErrInvalidRecipe = errors.New("invalid recipe")
	ErrNotTester     = errors.New("user is not on the tester list")
)
