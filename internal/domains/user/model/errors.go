package model

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("a user with that username already exists")
	ErrEmailTaken          = errors.New("a user with that email already exists")
	ErrInvalidCredentials  = errors.New("no active account found with the given credentials")
	ErrTooManyAttempts     = errors.New("too many failed login attempts, try again later")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
)
