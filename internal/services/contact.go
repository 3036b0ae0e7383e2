package services

import (
	"context"
	"errors"

	"github.com/phonebook-api/apiserver/internal/mq"
	"github.com/phonebook-api/apiserver/internal/store"
	"github.com/phonebook-api/apiserver/internal/validate"
	"github.com/phonebook-api/apiserver/types"
	"go.uber.org/zap"
)

const maxContactPageSize = 100

// ContactRepository defines persistence operations for contacts.
type ContactRepository interface {
	ContactLister
	Create(ctx context.Context, ownerID int, contact types.Contact) (types.Contact, error)
	UpdateEmail(ctx context.Context, ownerID int, matchEmail, newEmail string) (types.Contact, error)
	UpdatePhone(ctx context.Context, ownerID int, matchPhone, newPhone string) (types.Contact, error)
	DeleteByIdentifier(ctx context.Context, ownerID int, identifier string) (bool, error)
}

// ContactService encapsulates contact use-cases. Every operation requires
// the owning account's token.
type ContactService struct {
	repo     ContactRepository
	guard    *Guard
	notifier *Notifier
	logger   *zap.Logger
}

func NewContactService(repo ContactRepository, guard *Guard, notifier *Notifier, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{repo: repo, guard: guard, notifier: notifier, logger: logger}
}

func (s *ContactService) Add(ctx context.Context, identifier, token string, contact types.Contact) (types.Contact, error) {
	if !validate.IsValidEmail(contact.Email) {
		return types.Contact{}, ErrInvalidEmail
	}
	if !validate.IsValidPhoneNumber(contact.PhoneNumber) {
		return types.Contact{}, ErrInvalidPhone
	}

	owner, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Contact{}, err
	}

	created, err := s.repo.Create(ctx, owner.ID, contact)
	if err != nil {
		// The owner can vanish between the check and the insert.
		return types.Contact{}, accountErr(err)
	}

	s.logger.Debug("contact created", zap.Int("account_id", owner.ID), zap.Int("contact_id", created.ID))
	s.notifier.Notify(ctx, mq.EventContactCreated, owner.ID, created.ID)
	return created, nil
}

// List returns one page of the owner's contacts and the owner's total
// contact count. limit is clamped to 1..100 and defaults to 100.
func (s *ContactService) List(ctx context.Context, identifier, token string, offset, limit int) ([]types.Contact, int, error) {
	owner, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return nil, 0, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxContactPageSize {
		limit = maxContactPageSize
	}
	return s.repo.ListByOwner(ctx, owner.ID, offset, limit)
}

// UpdateEmail changes the email of the owner's first contact whose email
// is oldEmail.
func (s *ContactService) UpdateEmail(ctx context.Context, identifier, token, oldEmail, newEmail string) (types.Contact, error) {
	if !validate.IsValidEmail(oldEmail) || !validate.IsValidEmail(newEmail) {
		return types.Contact{}, ErrInvalidEmail
	}
	owner, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Contact{}, err
	}
	updated, err := s.repo.UpdateEmail(ctx, owner.ID, oldEmail, newEmail)
	return updated, contactErr(err)
}

// UpdatePhone changes the phone number of the owner's first contact whose
// phone number is oldPhone.
func (s *ContactService) UpdatePhone(ctx context.Context, identifier, token, oldPhone, newPhone string) (types.Contact, error) {
	if !validate.IsValidPhoneNumber(oldPhone) || !validate.IsValidPhoneNumber(newPhone) {
		return types.Contact{}, ErrInvalidPhone
	}
	owner, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Contact{}, err
	}
	updated, err := s.repo.UpdatePhone(ctx, owner.ID, oldPhone, newPhone)
	return updated, contactErr(err)
}

// Delete removes the owner's first contact whose email or phone number is
// contactIdentifier.
func (s *ContactService) Delete(ctx context.Context, identifier, token, contactIdentifier string) error {
	if !IsIdentifier(contactIdentifier) {
		return ErrInvalidIdentifier
	}
	owner, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteByIdentifier(ctx, owner.ID, contactIdentifier)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrContactNotFound
	}

	s.notifier.Notify(ctx, mq.EventContactDeleted, owner.ID, 0)
	return nil
}

func contactErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrContactNotFound
	}
	return err
}
