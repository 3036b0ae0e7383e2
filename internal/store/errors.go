package store

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when another account already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicatePhone is returned when another account already uses the phone number.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrDuplicateContactPhone is returned when the owner already has a
	// contact with the phone number.
	ErrDuplicateContactPhone = errors.New("contact phone number already exists")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver constraint errors onto the store's error kinds.
// Errors it does not recognise are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return uniqueViolation(pqErr.Table+" "+pqErr.Constraint, err)
		case pgForeignKeyViolation:
			return ErrNotFound
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return uniqueViolation(liteErr.Error(), err)
		case sqlite3.ErrConstraintForeignKey:
			return ErrNotFound
		}
	}
	return err
}

func uniqueViolation(detail string, err error) error {
	switch {
	case strings.Contains(detail, "contacts"):
		return ErrDuplicateContactPhone
	case strings.Contains(detail, "email"):
		return ErrDuplicateEmail
	case strings.Contains(detail, "phone"):
		return ErrDuplicatePhone
	}
	return err
}
