package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phonebook-api/apiserver/types"
)

const accountColumns = `id, name, email, phone_number, premium, token_hash, created_at, updated_at`

// AccountRepository handles persistence for accounts.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id int) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return getAccount(ctx, r.db, query, id)
}

// GetByEmail looks an account up by exact email match.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return getAccount(ctx, r.db, query, email)
}

// GetByPhone looks an account up by exact phone number match.
func (r *AccountRepository) GetByPhone(ctx context.Context, phone string) (types.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE phone_number = $1`
	return getAccount(ctx, r.db, query, phone)
}

// Create inserts a new account. The email is checked before the phone
// number, so an input colliding on both reports ErrDuplicateEmail. The
// unique constraints back the checks up under concurrent inserts.
func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	account.CreatedAt = now
	account.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := ensureAbsent(ctx, tx, `SELECT id FROM accounts WHERE email = $1`, account.Email, ErrDuplicateEmail); err != nil {
			return err
		}
		if err := ensureAbsent(ctx, tx, `SELECT id FROM accounts WHERE phone_number = $1`, account.PhoneNumber, ErrDuplicatePhone); err != nil {
			return err
		}

		const query = `
			INSERT INTO accounts (name, email, phone_number, premium, token_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`
		return translate(tx.QueryRowContext(
			ctx,
			query,
			account.Name,
			account.Email,
			account.PhoneNumber,
			account.Premium,
			account.TokenHash,
			account.CreatedAt,
			account.UpdatedAt,
		).Scan(&account.ID))
	})
	if err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// UpdateEmail overwrites the email of account id.
func (r *AccountRepository) UpdateEmail(ctx context.Context, id int, email string) (types.Account, error) {
	const query = `
		UPDATE accounts
		SET email = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING ` + accountColumns
	return getAccount(ctx, r.db, query, email, time.Now().UTC(), id)
}

// UpdatePhone overwrites the phone number of account id.
func (r *AccountRepository) UpdatePhone(ctx context.Context, id int, phone string) (types.Account, error) {
	const query = `
		UPDATE accounts
		SET phone_number = $1,
			updated_at = $2
		WHERE id = $3
		RETURNING ` + accountColumns
	return getAccount(ctx, r.db, query, phone, time.Now().UTC(), id)
}

// SetPremium flags the account as premium. It reports false when the
// account does not exist.
func (r *AccountRepository) SetPremium(ctx context.Context, id int) (bool, error) {
	const query = `UPDATE accounts SET premium = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, true, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes the account and all of its contacts in one transaction.
// It reports false, without error, when the account does not exist.
func (r *AccountRepository) Delete(ctx context.Context, id int) (bool, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE owner_id = $1`, id); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
		if err != nil {
			return err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func getAccount(ctx context.Context, q rowQuerier, query string, args ...any) (types.Account, error) {
	account, err := scanAccount(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, translate(err)
	}
	return account, nil
}

func scanAccount(row rowScanner) (types.Account, error) {
	var account types.Account
	err := row.Scan(
		&account.ID,
		&account.Name,
		&account.Email,
		&account.PhoneNumber,
		&account.Premium,
		&account.TokenHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

func ensureAbsent(ctx context.Context, q rowQuerier, query string, arg any, conflict error) error {
	var id int
	err := q.QueryRowContext(ctx, query, arg).Scan(&id)
	switch {
	case err == nil:
		return conflict
	case errors.Is(err, sql.ErrNoRows):
		return nil
	default:
		return err
	}
}
