package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phonebook-api/apiserver/internal/lock"
	"github.com/phonebook-api/apiserver/internal/mq"
	"github.com/phonebook-api/apiserver/internal/store"
	"github.com/phonebook-api/apiserver/internal/validate"
	"github.com/phonebook-api/apiserver/types"
	"go.uber.org/zap"
)

const registerLockKey = "register"

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	AccountFinder
	GetByID(ctx context.Context, id int) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	UpdateEmail(ctx context.Context, id int, email string) (types.Account, error)
	UpdatePhone(ctx context.Context, id int, phone string) (types.Account, error)
	SetPremium(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// ContactLister reads an owner's contacts page by page.
type ContactLister interface {
	ListByOwner(ctx context.Context, ownerID, offset, limit int) ([]types.Contact, int, error)
}

// Archiver is implemented by *storage.Storage.
type Archiver interface {
	PutJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo       AccountRepository
	contacts   ContactLister
	resolver   *Resolver
	authorizer *Authorizer
	guard      *Guard
	locker     lock.Locker
	archiver   Archiver
	notifier   *Notifier
	logger     *zap.Logger
}

// AccountServiceOptions carries the optional collaborators of an
// AccountService. Nil fields disable the matching feature, except Locker
// which defaults to a process-local lock.
type AccountServiceOptions struct {
	Locker          lock.Locker
	Archiver        Archiver
	Notifier        *Notifier
	Logger          *zap.Logger
	ConcealNotFound bool
}

func NewAccountService(repo AccountRepository, contacts ContactLister, resolver *Resolver, authorizer *Authorizer, opts AccountServiceOptions) *AccountService {
	if opts.Locker == nil {
		opts.Locker = lock.NewLocalLocker()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &AccountService{
		repo:       repo,
		contacts:   contacts,
		resolver:   resolver,
		authorizer: authorizer,
		guard:      NewGuard(resolver, authorizer, opts.ConcealNotFound),
		locker:     opts.Locker,
		archiver:   opts.Archiver,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
	}
}

// Register creates an account and returns it together with its access
// token. The token is not retrievable afterwards.
func (s *AccountService) Register(ctx context.Context, name, email, phone string) (types.RegisteredAccount, error) {
	if !validate.IsValidEmail(email) {
		return types.RegisteredAccount{}, ErrInvalidEmail
	}
	if !validate.IsValidPhoneNumber(phone) {
		return types.RegisteredAccount{}, ErrInvalidPhone
	}

	token, hash, err := s.authorizer.IssueToken()
	if err != nil {
		return types.RegisteredAccount{}, err
	}

	release, err := s.locker.Acquire(ctx, registerLockKey)
	if err != nil {
		return types.RegisteredAccount{}, fmt.Errorf("register lock: %w", err)
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("release register lock failed", zap.Error(err))
		}
	}()

	account, err := s.repo.Create(ctx, types.Account{
		Name:        name,
		Email:       email,
		PhoneNumber: phone,
		TokenHash:   hash,
	})
	if err != nil {
		return types.RegisteredAccount{}, err
	}

	s.logger.Info("account registered", zap.Int("account_id", account.ID))
	s.notifier.Notify(ctx, mq.EventAccountRegistered, account.ID, 0)
	return types.RegisteredAccount{Account: account, Token: token}, nil
}

// Lookup returns the account named by identifier. No token is required.
func (s *AccountService) Lookup(ctx context.Context, identifier string) (types.Account, error) {
	return s.resolver.Resolve(ctx, identifier)
}

func (s *AccountService) UpdateEmail(ctx context.Context, identifier, token, newEmail string) (types.Account, error) {
	if !validate.IsValidEmail(newEmail) {
		return types.Account{}, ErrInvalidEmail
	}
	account, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Account{}, err
	}
	updated, err := s.repo.UpdateEmail(ctx, account.ID, newEmail)
	return updated, accountErr(err)
}

func (s *AccountService) UpdatePhone(ctx context.Context, identifier, token, newPhone string) (types.Account, error) {
	if !validate.IsValidPhoneNumber(newPhone) {
		return types.Account{}, ErrInvalidPhone
	}
	account, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Account{}, err
	}
	updated, err := s.repo.UpdatePhone(ctx, account.ID, newPhone)
	return updated, accountErr(err)
}

// SetPremium enables the premium tier. Calling it again is a no-op.
func (s *AccountService) SetPremium(ctx context.Context, identifier, token string) (types.Account, error) {
	account, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return types.Account{}, err
	}
	ok, err := s.repo.SetPremium(ctx, account.ID)
	if err != nil {
		return types.Account{}, err
	}
	if !ok {
		return types.Account{}, ErrAccountNotFound
	}
	updated, err := s.repo.GetByID(ctx, account.ID)
	return updated, accountErr(err)
}

// Delete removes the account and every contact it owns. When an archiver
// is configured a snapshot is stored first and a failed snapshot aborts
// the delete.
func (s *AccountService) Delete(ctx context.Context, identifier, token string) error {
	account, err := s.guard.Check(ctx, identifier, token)
	if err != nil {
		return err
	}

	var archiveKey string
	if s.archiver != nil {
		archiveKey, err = s.archive(ctx, account)
		if err != nil {
			s.logger.Error("archive account failed", zap.Int("account_id", account.ID), zap.Error(err))
			return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
		}
	}

	deleted, err := s.repo.Delete(ctx, account.ID)
	if err != nil || !deleted {
		s.discardArchive(ctx, archiveKey)
	}
	if err != nil {
		s.logger.Error("delete account failed", zap.Int("account_id", account.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if !deleted {
		return ErrAccountNotFound
	}

	s.logger.Info("account deleted", zap.Int("account_id", account.ID), zap.String("archive_key", archiveKey))
	s.notifier.Notify(ctx, mq.EventAccountDeleted, account.ID, 0)
	return nil
}

func (s *AccountService) archive(ctx context.Context, account types.Account) (string, error) {
	var contacts []types.Contact
	for offset := 0; ; offset += maxContactPageSize {
		page, total, err := s.contacts.ListByOwner(ctx, account.ID, offset, maxContactPageSize)
		if err != nil {
			return "", fmt.Errorf("list contacts: %w", err)
		}
		contacts = append(contacts, page...)
		if len(page) == 0 || len(contacts) >= total {
			break
		}
	}
	if contacts == nil {
		contacts = []types.Contact{}
	}

	now := time.Now().UTC()
	key := ArchiveKey(account.ID, now)
	err := s.archiver.PutJSON(ctx, key, types.AccountArchive{
		Account:    account,
		Contacts:   contacts,
		ArchivedAt: now,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// discardArchive removes a snapshot whose account was not deleted.
func (s *AccountService) discardArchive(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.archiver.Delete(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn("discard archive failed", zap.String("key", key), zap.Error(err))
	}
}

// ArchivePrefix is the key prefix shared by every snapshot of an account.
func ArchivePrefix(accountID int) string {
	return fmt.Sprintf("accounts/%d/", accountID)
}

// ArchiveKey is the object key of an account snapshot taken at t.
func ArchiveKey(accountID int, t time.Time) string {
	return fmt.Sprintf("%sarchive-%d.json", ArchivePrefix(accountID), t.Unix())
}

func accountErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	return err
}
