package services

import (
	"errors"
	"fmt"

	"github.com/phonebook-api/apiserver/internal/store"
)

var (
	// ErrInvalidIdentifier is returned when an identifier is neither a
	// valid email nor a valid phone number.
	ErrInvalidIdentifier = errors.New("invalid identifier, use a valid email or phone number")

	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrUnauthorized is returned when the presented token does not grant
	// access to the resolved account.
	ErrUnauthorized = errors.New("unauthorized action, provide a valid token")

	ErrAccountNotFound = fmt.Errorf("account %w", store.ErrNotFound)
	ErrContactNotFound = fmt.Errorf("contact %w", store.ErrNotFound)

	// ErrDeleteFailed is returned when an account could not be removed
	// atomically. Nothing has been deleted when it is returned.
	ErrDeleteFailed = errors.New("failed to delete account")
)
