package models

import "errors"

// Common errors for config and module registry operations.
var (
	// Config errors
	ErrConfigItemNotFound = errors.New("configuration item not found")
	ErrTypeMismatch       = errors.New("configuration item has a different type")

	// Module errors
	ErrModuleNotFound = errors.New("module not found")
	ErrEmptyName      = errors.New("name must not be empty")
)
