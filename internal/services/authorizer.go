package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/phonebook-api/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

// TokenLength is the length of every issued token.
var TokenLength = base64.RawURLEncoding.EncodedLen(tokenBytes)

// Authorizer mints access tokens and checks presented tokens against the
// stored hash.
type Authorizer struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthorizer returns an Authorizer hashing with the given bcrypt cost.
// Out of range costs fall back to bcrypt.DefaultCost.
func NewAuthorizer(cost int) *Authorizer {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Authorizer{cost: cost}
}

// IssueToken returns a fresh random token and the hash to persist for it.
func (a *Authorizer) IssueToken() (token, hash string, err error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate token: %w", err)
	}
	token = base64.RawURLEncoding.EncodeToString(buf)

	hashed, err := bcrypt.GenerateFromPassword([]byte(token), a.cost)
	if err != nil {
		return "", "", fmt.Errorf("hash token: %w", err)
	}
	return token, string(hashed), nil
}

// Authorize returns ErrUnauthorized unless presented is exactly the token
// issued to account.
func (a *Authorizer) Authorize(account types.Account, presented string) error {
	if len(presented) != TokenLength || account.TokenHash == "" {
		return ErrUnauthorized
	}

	err := bcrypt.CompareHashAndPassword([]byte(account.TokenHash), []byte(presented))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrUnauthorized
		}
		return fmt.Errorf("compare token: %w", err)
	}
	return nil
}

// CompareDummy does the bcrypt work of Authorize against a throwaway hash,
// so a rejected unknown identifier costs as much as a wrong token.
func (a *Authorizer) CompareDummy(presented string) {
	if len(presented) != TokenLength {
		return
	}
	a.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword(make([]byte, tokenBytes), a.cost)
		if err == nil {
			a.dummyHash = hash
		}
	})
	if a.dummyHash != nil {
		_ = bcrypt.CompareHashAndPassword(a.dummyHash, []byte(presented))
	}
}
