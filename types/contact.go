package types

import "time"

// Contact is a named email/phone entry owned by exactly one account.
type Contact struct {
	// ID is the unique identifier of the contact.
	ID int `json:"id" db:"id"`

	// OwnerID identifies the owning account. It is set once at creation.
	OwnerID int `json:"owner_id" db:"owner_id"`

	Name        string `json:"name" db:"name"`
	Email       string `json:"email" db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	// CreatedAt is the timestamp when the contact was added.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the contact.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AccountArchive is the snapshot written to object storage before an
// account is deleted.
type AccountArchive struct {
	Account    Account   `json:"account"`
	Contacts   []Contact `json:"contacts"`
	ArchivedAt time.Time `json:"archived_at"`
}
