package domain

import "errors"

var (
	ErrLayoutNotFound = errors.New("layout record not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
)
