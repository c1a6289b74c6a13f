package domain

import "errors"

var (
	ErrInvalidUser  = errors.New("invalid_user")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrUserNotFound = errors.New("user_not_found")
)
