package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/phonebook-api/apiserver/types"
)

const contactColumns = `id, owner_id, name, email, phone_number, created_at, updated_at`

const defaultContactLimit = 100

// ContactRepository handles persistence for contacts. Every operation is
// scoped to the owning account.
type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts contact under ownerID. Duplicate names and emails are
// allowed; a phone number may appear once per owner.
func (r *ContactRepository) Create(ctx context.Context, ownerID int, contact types.Contact) (types.Contact, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	contact.OwnerID = ownerID
	contact.CreatedAt = now
	contact.UpdatedAt = now

	const query = `
		INSERT INTO contacts (owner_id, name, email, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		contact.OwnerID,
		contact.Name,
		contact.Email,
		contact.PhoneNumber,
		contact.CreatedAt,
		contact.UpdatedAt,
	).Scan(&contact.ID); err != nil {
		return types.Contact{}, translate(err)
	}
	return contact, nil
}

// ListByOwner returns one page of the owner's contacts in insertion order
// together with the owner's total contact count.
func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID, offset, limit int) ([]types.Contact, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = defaultContactLimit
	}

	const countQuery = `SELECT COUNT(1) FROM contacts WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE owner_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, listQuery, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	contacts := make([]types.Contact, 0, min(limit, total))
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// UpdateEmail rewrites the email of the first contact under ownerID whose
// email equals matchEmail.
func (r *ContactRepository) UpdateEmail(ctx context.Context, ownerID int, matchEmail, newEmail string) (types.Contact, error) {
	const query = `
		UPDATE contacts
		SET email = $1,
			updated_at = $2
		WHERE id = (
			SELECT id FROM contacts
			WHERE owner_id = $3 AND email = $4
			ORDER BY id
			LIMIT 1
		)
		RETURNING ` + contactColumns
	return getContact(ctx, r.db, query, newEmail, time.Now().UTC(), ownerID, matchEmail)
}

// UpdatePhone rewrites the phone number of the first contact under ownerID
// whose phone number equals matchPhone.
func (r *ContactRepository) UpdatePhone(ctx context.Context, ownerID int, matchPhone, newPhone string) (types.Contact, error) {
	const query = `
		UPDATE contacts
		SET phone_number = $1,
			updated_at = $2
		WHERE id = (
			SELECT id FROM contacts
			WHERE owner_id = $3 AND phone_number = $4
			ORDER BY id
			LIMIT 1
		)
		RETURNING ` + contactColumns
	return getContact(ctx, r.db, query, newPhone, time.Now().UTC(), ownerID, matchPhone)
}

// DeleteByIdentifier removes the first contact under ownerID whose email or
// phone number equals identifier. It reports false when nothing matched.
func (r *ContactRepository) DeleteByIdentifier(ctx context.Context, ownerID int, identifier string) (bool, error) {
	const query = `
		DELETE FROM contacts
		WHERE id = (
			SELECT id FROM contacts
			WHERE owner_id = $1 AND (email = $2 OR phone_number = $2)
			ORDER BY id
			LIMIT 1
		)`
	result, err := r.db.ExecContext(ctx, query, ownerID, identifier)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func getContact(ctx context.Context, q rowQuerier, query string, args ...any) (types.Contact, error) {
	contact, err := scanContact(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Contact{}, ErrNotFound
		}
		return types.Contact{}, translate(err)
	}
	return contact, nil
}

func scanContact(row rowScanner) (types.Contact, error) {
	var contact types.Contact
	err := row.Scan(
		&contact.ID,
		&contact.OwnerID,
		&contact.Name,
		&contact.Email,
		&contact.PhoneNumber,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
	return contact, err
}
