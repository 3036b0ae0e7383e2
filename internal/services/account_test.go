package services

import (
	"context"
	"testing"

	"github.com/phonebook-api/apiserver/internal/mq"
	"github.com/phonebook-api/apiserver/internal/store"
	"github.com/phonebook-api/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	registered, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)
	require.NotZero(t, registered.ID)
	require.Len(t, registered.Token, TokenLength)
	require.NotEqual(t, registered.Token, registered.TokenHash)

	byEmail, err := f.accounts.Lookup(ctx, "alice@example.com")
	require.NoError(t, err)
	byPhone, err := f.accounts.Lookup(ctx, "9876543210")
	require.NoError(t, err)
	require.Equal(t, registered.ID, byEmail.ID)
	require.Equal(t, byEmail.ID, byPhone.ID)

	other, err := f.accounts.Register(ctx, "Bob", "bob@example.com", "9123456789")
	require.NoError(t, err)
	require.NotEqual(t, registered.Token, other.Token)

	require.Equal(t, []string{mq.EventAccountRegistered, mq.EventAccountRegistered}, f.publisher.eventTypes())
	require.Equal(t, "phonebook.events", f.publisher.channel)
}

func TestRegisterFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)

	tests := map[string]struct {
		email string
		phone string
		want  error
	}{
		"invalid email":   {email: "not-an-email", phone: "9000000000", want: ErrInvalidEmail},
		"invalid phone":   {email: "bob@example.com", phone: "12345", want: ErrInvalidPhone},
		"duplicate email": {email: "alice@example.com", phone: "9000000000", want: store.ErrDuplicateEmail},
		"duplicate phone": {email: "bob@example.com", phone: "9876543210", want: store.ErrDuplicatePhone},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.accounts.Register(ctx, "Bob", tc.email, tc.phone)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRegisterSucceedsWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errBoom

	_, err := f.accounts.Register(context.Background(), "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)
}

func TestUpdateAccountEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)
	_, err = f.accounts.Register(ctx, "Bob", "bob@example.com", "9123456789")
	require.NoError(t, err)

	updated, err := f.accounts.UpdateEmail(ctx, "9876543210", alice.Token, "alice@new.org")
	require.NoError(t, err)
	require.Equal(t, "alice@new.org", updated.Email)

	_, err = f.accounts.Lookup(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)

	updated, err = f.accounts.UpdatePhone(ctx, "alice@new.org", alice.Token, "9111111111")
	require.NoError(t, err)
	require.Equal(t, "9111111111", updated.PhoneNumber)

	_, err = f.accounts.UpdateEmail(ctx, "alice@new.org", alice.Token, "bob@example.com")
	require.ErrorIs(t, err, store.ErrDuplicateEmail)

	bob, err := f.accounts.Lookup(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, "9123456789", bob.PhoneNumber)
	unchanged, err := f.accounts.Lookup(ctx, "alice@new.org")
	require.NoError(t, err)
	require.Equal(t, alice.ID, unchanged.ID)

	_, err = f.accounts.UpdateEmail(ctx, "alice@new.org", alice.Token, "broken")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.accounts.UpdatePhone(ctx, "alice@new.org", alice.Token, "6000000000")
	require.ErrorIs(t, err, ErrInvalidPhone)

	_, err = f.accounts.UpdateEmail(ctx, "alice@new.org", "wrong", "alice@other.org")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.accounts.UpdateEmail(ctx, "ghost@example.com", alice.Token, "alice@other.org")
	require.ErrorIs(t, err, ErrAccountNotFound)

	_, err = f.accounts.UpdateEmail(ctx, "ghost", alice.Token, "alice@other.org")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestSetPremium(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)
	require.False(t, alice.Premium)

	for i := 0; i < 2; i++ {
		updated, err := f.accounts.SetPremium(ctx, "alice@example.com", alice.Token)
		require.NoError(t, err)
		require.True(t, updated.Premium)
	}

	_, err = f.accounts.SetPremium(ctx, "alice@example.com", "nope")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)

	_, err = f.contacts.Add(ctx, "alice@example.com", alice.Token, types.Contact{Name: "Carol", Email: "carol@example.com", PhoneNumber: "9000000001"})
	require.NoError(t, err)

	require.ErrorIs(t, f.accounts.Delete(ctx, "alice@example.com", "wrong"), ErrUnauthorized)

	require.NoError(t, f.accounts.Delete(ctx, "9876543210", alice.Token))

	_, err = f.accounts.Lookup(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrAccountNotFound)
	_, err = f.accounts.Lookup(ctx, "9876543210")
	require.ErrorIs(t, err, ErrAccountNotFound)

	require.Len(t, f.archiver.objects, 1)
	for key, v := range f.archiver.objects {
		require.Contains(t, key, "accounts/")
		archive, ok := v.(types.AccountArchive)
		require.True(t, ok)
		require.Equal(t, alice.ID, archive.Account.ID)
		require.Len(t, archive.Contacts, 1)
		require.Equal(t, "carol@example.com", archive.Contacts[0].Email)
	}

	require.Contains(t, f.publisher.eventTypes(), mq.EventAccountDeleted)

	// A second delete reports not found instead of failing.
	require.ErrorIs(t, f.accounts.Delete(ctx, "alice@example.com", alice.Token), ErrAccountNotFound)
}

func TestDeleteAccountAbortsWhenArchiveFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)

	f.archiver.err = errBoom
	err = f.accounts.Delete(ctx, "alice@example.com", alice.Token)
	require.ErrorIs(t, err, ErrDeleteFailed)

	_, err = f.accounts.Lookup(ctx, "alice@example.com")
	require.NoError(t, err, "account survives a failed delete")
	require.NotContains(t, f.publisher.eventTypes(), mq.EventAccountDeleted)
}

type failingDelete struct {
	AccountRepository
}

func (failingDelete) Delete(context.Context, int) (bool, error) {
	return false, errBoom
}

func TestDeleteAccountDiscardsArchiveWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, err := f.accounts.Register(ctx, "Alice", "alice@example.com", "9876543210")
	require.NoError(t, err)

	f.accounts.repo = failingDelete{f.accounts.repo}
	err = f.accounts.Delete(ctx, "alice@example.com", alice.Token)
	require.ErrorIs(t, err, ErrDeleteFailed)
	require.Empty(t, f.archiver.objects)
}
