package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyName       = errors.New("name is empty")
	ErrInvalidServings = errors.New("servings must be positive")
)
