package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/phonebook-api/apiserver/internal/storage"
	"github.com/phonebook-api/apiserver/types"
	"github.com/stretchr/testify/require"
)

type fakeArchives struct {
	objects map[string][]byte
}

func (f fakeArchives) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f fakeArchives) GetJSON(_ context.Context, key string, v any) error {
	data, ok := f.objects[key]
	if !ok {
		return storage.ErrObjectNotFound
	}
	return json.Unmarshal(data, v)
}

func newFakeArchives(t *testing.T) fakeArchives {
	t.Helper()
	data, err := json.Marshal(types.AccountArchive{
		Account:  types.Account{ID: 3, Email: "alice@example.com", TokenHash: "secret-hash"},
		Contacts: []types.Contact{{ID: 9, OwnerID: 3, Email: "carol@example.com"}},
	})
	require.NoError(t, err)
	return fakeArchives{objects: map[string][]byte{
		"accounts/3/archive-100.json":  data,
		"accounts/30/archive-100.json": data,
	}}
}

func TestListArchives(t *testing.T) {
	archives := newFakeArchives(t)

	var out bytes.Buffer
	require.NoError(t, listArchives(context.Background(), archives, 3, &out))
	require.Equal(t, "accounts/3/archive-100.json\n", out.String())

	require.Error(t, listArchives(context.Background(), archives, 4, &out))
}

func TestShowArchive(t *testing.T) {
	archives := newFakeArchives(t)

	var out bytes.Buffer
	require.NoError(t, showArchive(context.Background(), archives, "accounts/3/archive-100.json", &out))

	var got types.AccountArchive
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, 3, got.Account.ID)
	require.Len(t, got.Contacts, 1)
	require.NotContains(t, out.String(), "secret-hash")

	err := showArchive(context.Background(), archives, "accounts/3/missing.json", &out)
	require.ErrorContains(t, err, "not found")
}
