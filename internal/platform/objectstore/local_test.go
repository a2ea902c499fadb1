package objectstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(logger.NewNop(), t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)

	key := "recitations/u1/1700000000.wav"
	require.NoError(t, s.Put(ctx, key, strings.NewReader("RIFF"), "audio/wav"))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(body))

	assert.Equal(t, "http://localhost:8080/storage/recitations/u1/1700000000.wav", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, key))
}

func TestLocalStoreKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(logger.NewNop(), root, "")
	require.NoError(t, err)

	p, err := s.path("../../etc/passwd")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, root))
	assert.Equal(t, "", s.URL("x"))

	_, err = s.path("  ")
	assert.Error(t, err)
}

func TestLocalStoreHonoursCancellation(t *testing.T) {
	s, err := NewLocalStore(logger.NewNop(), t.TempDir(), "")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Put(ctx, "a/b.wav", strings.NewReader("data"), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalStoreListKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(logger.NewNop(), t.TempDir(), "")
	require.NoError(t, err)
	for _, key := range []string{"recitations/a/2.wav", "recitations/a/1.mp3", "recitations/b/1.wav"} {
		require.NoError(t, s.Put(ctx, key, strings.NewReader("x"), ""))
	}

	keys, err := s.ListKeys(ctx, "recitations/a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"recitations/a/1.mp3", "recitations/a/2.wav"}, keys)

	keys, err = s.ListKeys(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}
