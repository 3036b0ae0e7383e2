package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phonebook-api/apiserver/internal/db"
	"github.com/phonebook-api/apiserver/internal/mq"
	"github.com/phonebook-api/apiserver/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakePublisher struct {
	mu      sync.Mutex
	events  []mq.Event
	channel string
	err     error
}

func (p *fakePublisher) PublishEvent(_ context.Context, channel string, event mq.Event) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.channel = channel
	p.events = append(p.events, event)
	return event.ID, nil
}

func (p *fakePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeArchiver struct {
	objects map[string]any
	err     error
}

func (a *fakeArchiver) PutJSON(_ context.Context, key string, v any) error {
	if a.err != nil {
		return a.err
	}
	if a.objects == nil {
		a.objects = map[string]any{}
	}
	a.objects[key] = v
	return nil
}

func (a *fakeArchiver) Delete(_ context.Context, key string) error {
	delete(a.objects, key)
	return nil
}

type fixture struct {
	accounts  *AccountService
	contacts  *ContactService
	publisher *fakePublisher
	archiver  *fakeArchiver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	accountRepo := store.NewAccountRepository(conn)
	contactRepo := store.NewContactRepository(conn)

	publisher := &fakePublisher{}
	archiver := &fakeArchiver{}
	notifier := NewNotifier(publisher, "phonebook.events", nil)
	resolver := NewResolver(accountRepo)
	authorizer := NewAuthorizer(bcrypt.MinCost)

	return &fixture{
		accounts: NewAccountService(accountRepo, contactRepo, resolver, authorizer, AccountServiceOptions{
			Archiver: archiver,
			Notifier: notifier,
		}),
		contacts:  NewContactService(contactRepo, NewGuard(resolver, authorizer, false), notifier, nil),
		publisher: publisher,
		archiver:  archiver,
	}
}

var errBoom = errors.New("boom")
