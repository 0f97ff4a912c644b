package domain

import "errors"

// Sentinel errors returned by the repositories; handlers map them to
// HTTP statuses at the edge.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrTodoNotFound   = errors.New("todo not found")
	ErrDuplicateEmail = errors.New("email already registered")
)
