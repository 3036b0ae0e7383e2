package store

import (
	"context"
	"testing"

	"github.com/phonebook-api/apiserver/types"
	"github.com/stretchr/testify/require"
)

func TestAccountCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))

	created := createAccount(t, repo, "alice@example.com", "9876543210")
	require.NotZero(t, created.ID)
	require.False(t, created.Premium)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", byID.Email)
	require.Equal(t, "hash", byID.TokenHash)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, byEmail.ID)

	byPhone, err := repo.GetByPhone(ctx, "9876543210")
	require.NoError(t, err)
	require.Equal(t, created.ID, byPhone.ID)

	_, err = repo.GetByEmail(ctx, "ALICE@example.com")
	require.ErrorIs(t, err, ErrNotFound, "lookups are case-sensitive")

	_, err = repo.GetByID(ctx, created.ID+100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountCreateDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))
	createAccount(t, repo, "alice@example.com", "9876543210")

	tests := map[string]struct {
		email string
		phone string
		want  error
	}{
		"same email":   {email: "alice@example.com", phone: "9000000000", want: ErrDuplicateEmail},
		"same phone":   {email: "bob@example.com", phone: "9876543210", want: ErrDuplicatePhone},
		"both collide": {email: "alice@example.com", phone: "9876543210", want: ErrDuplicateEmail},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Create(ctx, types.Account{
				Name:        "Dup",
				Email:       tc.email,
				PhoneNumber: tc.phone,
				TokenHash:   "hash",
			})
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAccountUpdateEmailAndPhone(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))
	alice := createAccount(t, repo, "alice@example.com", "9876543210")
	createAccount(t, repo, "bob@example.com", "9123456789")

	updated, err := repo.UpdateEmail(ctx, alice.ID, "alice@new.org")
	require.NoError(t, err)
	require.Equal(t, "alice@new.org", updated.Email)
	require.Equal(t, "9876543210", updated.PhoneNumber)

	_, err = repo.GetByEmail(ctx, "alice@example.com")
	require.ErrorIs(t, err, ErrNotFound)

	updated, err = repo.UpdatePhone(ctx, alice.ID, "9111111111")
	require.NoError(t, err)
	require.Equal(t, "9111111111", updated.PhoneNumber)

	_, err = repo.UpdateEmail(ctx, alice.ID, "bob@example.com")
	require.ErrorIs(t, err, ErrDuplicateEmail)

	_, err = repo.UpdatePhone(ctx, alice.ID, "9123456789")
	require.ErrorIs(t, err, ErrDuplicatePhone)

	_, err = repo.UpdateEmail(ctx, alice.ID+100, "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAccountSetPremium(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(openTestDB(t))
	alice := createAccount(t, repo, "alice@example.com", "9876543210")

	ok, err := repo.SetPremium(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, got.Premium)

	ok, err = repo.SetPremium(ctx, alice.ID+100)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestAccountDeleteCascadesContacts(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	accounts := NewAccountRepository(conn)
	contacts := NewContactRepository(conn)

	alice := createAccount(t, accounts, "alice@example.com", "9876543210")
	bob := createAccount(t, accounts, "bob@example.com", "9123456789")

	for _, phone := range []string{"9000000001", "9000000002"} {
		_, err := contacts.Create(ctx, alice.ID, types.Contact{Name: "c", Email: "c@example.com", PhoneNumber: phone})
		require.NoError(t, err)
	}
	_, err := contacts.Create(ctx, bob.ID, types.Contact{Name: "c", Email: "c@example.com", PhoneNumber: "9000000001"})
	require.NoError(t, err)

	ok, err := accounts.Delete(ctx, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = accounts.GetByID(ctx, alice.ID)
	require.ErrorIs(t, err, ErrNotFound)

	_, total, err := contacts.ListByOwner(ctx, alice.ID, 0, 100)
	require.NoError(t, err)
	require.Zero(t, total)

	_, total, err = contacts.ListByOwner(ctx, bob.ID, 0, 100)
	require.NoError(t, err)
	require.Equal(t, 1, total, "other owners keep their contacts")

	ok, err = accounts.Delete(ctx, alice.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// The freed identifiers can be registered again.
	createAccount(t, accounts, "alice@example.com", "9876543210")
}
