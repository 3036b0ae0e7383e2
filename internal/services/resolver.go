package services

import (
	"context"
	"errors"

	"github.com/phonebook-api/apiserver/internal/store"
	"github.com/phonebook-api/apiserver/internal/validate"
	"github.com/phonebook-api/apiserver/types"
)

// AccountFinder looks accounts up by either identifier.
type AccountFinder interface {
	GetByEmail(ctx context.Context, email string) (types.Account, error)
	GetByPhone(ctx context.Context, phone string) (types.Account, error)
}

// Resolver maps a caller supplied identifier to the account it names.
type Resolver struct {
	accounts AccountFinder
}

func NewResolver(accounts AccountFinder) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve treats identifier as an email first and as a phone number second.
// It returns ErrInvalidIdentifier when identifier has neither shape and
// ErrAccountNotFound when no account matches.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (types.Account, error) {
	if !IsIdentifier(identifier) {
		return types.Account{}, ErrInvalidIdentifier
	}

	account, err := r.accounts.GetByEmail(ctx, identifier)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.Account{}, err
	}

	account, err = r.accounts.GetByPhone(ctx, identifier)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrAccountNotFound
		}
		return types.Account{}, err
	}
	return account, nil
}

// IsIdentifier reports whether s is usable as an account or contact
// identifier.
func IsIdentifier(s string) bool {
	return s != "" && (validate.IsValidEmail(s) || validate.IsValidPhoneNumber(s))
}
