package domain

import "errors"

var (
	ErrNotFound           = errors.New("restaurant not found")
	ErrDuplicate          = errors.New("restaurant already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
