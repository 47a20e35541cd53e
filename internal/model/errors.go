package model

import "errors"

var (
	// User related errors
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already in use")
	ErrEmailNotFound   = errors.New("email not found")
	ErrInvalidPassword = errors.New("invalid password")

	// Token related errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// Post related errors
	ErrPostNotFound = errors.New("post not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
)
