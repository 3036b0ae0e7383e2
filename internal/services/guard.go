package services

import (
	"context"
	"errors"

	"github.com/phonebook-api/apiserver/types"
)

// Guard resolves an identifier and checks the caller's token against the
// resolved account. Every token protected operation goes through it.
type Guard struct {
	resolver   *Resolver
	authorizer *Authorizer
	// concealNotFound makes an unknown identifier cost a token comparison.
	concealNotFound bool
}

func NewGuard(resolver *Resolver, authorizer *Authorizer, concealNotFound bool) *Guard {
	return &Guard{resolver: resolver, authorizer: authorizer, concealNotFound: concealNotFound}
}

func (g *Guard) Check(ctx context.Context, identifier, token string) (types.Account, error) {
	account, err := g.resolver.Resolve(ctx, identifier)
	if err != nil {
		if g.concealNotFound && errors.Is(err, ErrAccountNotFound) {
			g.authorizer.CompareDummy(token)
		}
		return types.Account{}, err
	}
	if err := g.authorizer.Authorize(account, token); err != nil {
		return types.Account{}, err
	}
	return account, nil
}
