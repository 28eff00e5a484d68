package user

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("email already registered")
	ErrInvalidInput  = errors.New("invalid user")
	ErrUnknownSchema = errors.New("unknown user schema")
)
