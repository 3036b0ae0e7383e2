package types

import "time"

// Account represents a registered user of the phonebook.
// It is the root of an ownership subtree of contacts.
type Account struct {
	// ID is the unique identifier of the account.
	ID int `json:"id" db:"id"`

	// Name is the account holder's display name.
	Name string `json:"name" db:"name"`

	// Email is unique across all accounts and can be used as an identifier.
	Email string `json:"email" db:"email"`

	// PhoneNumber is unique across all accounts and can be used as an identifier.
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	// Premium marks accounts with the premium tier enabled.
	Premium bool `json:"premium" db:"premium"`

	// TokenHash stores the bcrypt hash of the access token issued at
	// registration. This field is never exposed in API responses.
	TokenHash string `json:"-" db:"token_hash"`

	// CreatedAt is the timestamp when the account was registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RegisteredAccount is returned once, by registration. It is the only
// response that carries the plaintext access token.
type RegisteredAccount struct {
	Account
	Token string `json:"token"`
}
