package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"NexusFlow/internal/pkg"
	"NexusFlow/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects map[string]string
}

func (m *memoryStore) PutObject(_ context.Context, in pkg.UploadInput) (string, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return "", err
	}
	m.objects[in.Key] = string(b)
	return "https://cdn.example.com/" + in.Key, nil
}

func (m *memoryStore) DeleteObject(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func TestMediaUpload(t *testing.T) {
	store := &memoryStore{objects: map[string]string{}}
	media := service.NewMediaService(store, 16)
	ctx := t.Context()

	url, err := media.Upload(ctx, "u1", "cat.png", "image/png", 4, strings.NewReader("meow"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/posts/u1/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Len(t, store.objects, 1)

	_, err = media.Upload(ctx, "u1", "cat.jpeg", "image/jpeg; charset=binary", 4, strings.NewReader("meow"))
	require.NoError(t, err)

	cases := map[string]struct {
		name, contentType string
		size              int64
	}{
		"unsupported type": {"notes.txt", "text/plain", 4},
		"too large":        {"cat.png", "image/png", 17},
		"empty":            {"cat.png", "image/png", 0},
		"mismatched ext":   {"cat.gif", "image/png", 4},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := media.Upload(ctx, "u1", tc.name, tc.contentType, tc.size, strings.NewReader("meow"))
			assert.Equal(t, pkg.KindInvalid, pkg.KindOf(err))
		})
	}
	assert.Len(t, store.objects, 2)
}

func TestMediaUploadWithoutStorage(t *testing.T) {
	media := service.NewMediaService(nil, 0)
	_, err := media.Upload(t.Context(), "u1", "cat.png", "image/png", 4, strings.NewReader("meow"))
	assert.ErrorIs(t, err, service.ErrStorageDisabled)
}
