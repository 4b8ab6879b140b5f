// Package common defines shared sentinel errors and small utilities used
// across GManager layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Vault lifecycle errors.
	ErrNotInitialized = errors.New("vault not initialized")

	// Authentication errors.
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotLoggedIn     = errors.New("not logged in")

	// Session token errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Validation errors.
	ErrInvalidInput = errors.New("invalid input")
)
