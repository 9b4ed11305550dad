package service

import "errors"

// Sentinel errors. Callers wrap them with context and handlers classify
// them with errors.Is to pick the HTTP status.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
)
