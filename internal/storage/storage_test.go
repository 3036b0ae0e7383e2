package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/phonebook-api/apiserver/config"
	"github.com/stretchr/testify/require"
)

type memoryBackend struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryBackend) EnsureBucket(context.Context) error { return nil }

func (m *memoryBackend) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return errors.New("size mismatch")
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryBackend) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range m.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (m *memoryBackend) Bucket() string { return "archive" }

func TestPutJSON(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	store := NewStorage(backend)

	payload := map[string]any{"id": 3, "email": "a@b.co"}
	require.NoError(t, store.PutJSON(ctx, "accounts/3/archive-1.json", payload))
	require.Equal(t, "application/json", backend.contentTypes["accounts/3/archive-1.json"])

	var got map[string]any
	require.NoError(t, store.GetJSON(ctx, "accounts/3/archive-1.json", &got))
	require.Equal(t, "a@b.co", got["email"])

	require.NoError(t, store.Delete(ctx, "accounts/3/archive-1.json"))
	err := store.GetJSON(ctx, "accounts/3/archive-1.json", &got)
	require.ErrorIs(t, err, ErrObjectNotFound)
	require.Equal(t, "archive", store.Bucket())
}

func TestPutJSONRejectsUnencodable(t *testing.T) {
	store := NewStorage(newMemoryBackend())
	err := store.PutJSON(context.Background(), "bad.json", make(chan int))
	require.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()

	s, err := NewFromConfig(ctx, config.StorageConfig{})
	require.NoError(t, err)
	require.Nil(t, s)

	_, err = NewFromConfig(ctx, config.StorageConfig{Backend: "s3"})
	require.Error(t, err)

	_, err = NewFromConfig(ctx, config.StorageConfig{Backend: config.BackendMinio})
	require.Error(t, err, "minio endpoint is required")

	_, err = NewFromConfig(ctx, config.StorageConfig{Backend: config.BackendGCS})
	require.Error(t, err, "gcs bucket is required")
}

func TestGetJSONRejectsMalformedObject(t *testing.T) {
	ctx := context.Background()
	backend := newMemoryBackend()
	backend.objects["broken.json"] = []byte("{not json")

	var got map[string]any
	err := NewStorage(backend).GetJSON(ctx, "broken.json", &got)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrObjectNotFound)
}

func TestListSortsKeysUnderPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStorage(newMemoryBackend())
	for _, key := range []string{"accounts/3/archive-20.json", "accounts/30/archive-5.json", "accounts/3/archive-10.json"} {
		require.NoError(t, store.PutJSON(ctx, key, map[string]int{"id": 3}))
	}

	keys, err := store.List(ctx, "accounts/3/")
	require.NoError(t, err)
	require.Equal(t, []string{"accounts/3/archive-10.json", "accounts/3/archive-20.json"}, keys)
}
