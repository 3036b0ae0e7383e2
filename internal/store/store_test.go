package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/phonebook-api/apiserver/internal/db"
	"github.com/phonebook-api/apiserver/types"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func createAccount(t *testing.T, repo *AccountRepository, email, phone string) types.Account {
	t.Helper()
	account, err := repo.Create(context.Background(), types.Account{
		Name:        "Owner",
		Email:       email,
		PhoneNumber: phone,
		TokenHash:   "hash",
	})
	require.NoError(t, err)
	return account
}
