package service

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidInput    = errors.New("invalid input")
	ErrItemUnavailable = errors.New("menu item is not available")
	ErrInvalidState    = errors.New("invalid order state")
	ErrConflict        = errors.New("conflicting request")
)
