package user

import "errors"

var (
	// ErrUserNotFound indicates the user doesn't exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken indicates a presented token does not resolve to a user.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidInput indicates invalid registration input.
	ErrInvalidInput = errors.New("invalid user input")
)
