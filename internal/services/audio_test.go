package services

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/quranstudy-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
)

func newAudio(t *testing.T) (AudioService, *objectstore.LocalStore) {
	t.Helper()
	log := testutil.Logger(t)
	store, err := objectstore.NewLocalStore(log, t.TempDir(), "")
	require.NoError(t, err)
	return NewAudioService(log, store, observability.NewMetrics()), store
}

func TestStoreWritesSniffedAudio(t *testing.T) {
	ctx := context.Background()
	svc, store := newAudio(t)
	userID := uuid.New()
	payload := wavBytes(4096)

	ref, err := svc.Store(ctx, userID, AudioUpload{Filename: "x.bin", Size: int64(len(payload)), Body: bytes.NewReader(payload)})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^recitations/`+userID.String()+`/\d+-[0-9a-f-]{36}\.wav$`), ref.Key)
	assert.Equal(t, int64(len(payload)), ref.Size)

	rc, err := store.Open(ctx, ref.Key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStoreAcceptsMP3(t *testing.T) {
	svc, _ := newAudio(t)
	payload := append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 512)...)
	ref, err := svc.Store(context.Background(), uuid.New(), AudioUpload{Size: -1, Body: bytes.NewReader(payload)})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref.Key, ".mp3"), ref.Key)
}

func TestStoreRejectsNonAudio(t *testing.T) {
	svc, _ := newAudio(t)
	_, err := svc.Store(context.Background(), uuid.New(), AudioUpload{
		Filename: "notes.wav",
		Size:     11,
		Body:     strings.NewReader("hello world"),
	})
	e, ok := domainagg.As(err)
	require.True(t, ok)
	assert.Equal(t, "audio_file", e.Field)
	assert.Equal(t, "validation.mimes", e.Message)
	assert.Equal(t, []interface{}{AllowedAudioExtensions}, e.Args)
}

func TestStoreRejectsOversizedUploads(t *testing.T) {
	ctx := context.Background()
	svc, store := newAudio(t)
	userID := uuid.New()

	// declared size
	_, err := svc.Store(ctx, userID, AudioUpload{Size: maxAudioBytes + 1, Body: bytes.NewReader(wavBytes(64))})
	e, ok := domainagg.As(err)
	require.True(t, ok)
	assert.Equal(t, "validation.max_kb", e.Message)

	// unknown size, stream too long
	big := wavBytes(int(maxAudioBytes) + 10)
	_, err = svc.Store(ctx, userID, AudioUpload{Size: -1, Body: bytes.NewReader(big)})
	e, ok = domainagg.As(err)
	require.True(t, ok)
	assert.Equal(t, "validation.max_kb", e.Message)
	assert.Equal(t, []interface{}{MaxAudioKB}, e.Args)

	entries, err := store.ListKeys(ctx, "recitations/"+userID.String())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreRequiresBody(t *testing.T) {
	svc, _ := newAudio(t)
	_, err := svc.Store(context.Background(), uuid.New(), AudioUpload{Body: bytes.NewReader(nil)})
	e, ok := domainagg.As(err)
	require.True(t, ok)
	assert.Equal(t, "validation.required", e.Message)
}

func TestStoreSameSecondUploadsGetDistinctKeys(t *testing.T) {
	ctx := context.Background()
	svc, store := newAudio(t)
	fixed := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svc.(*audioService).now = func() time.Time { return fixed }
	userID := uuid.New()

	first := wavBytes(2048)
	second := wavBytes(4096)
	a, err := svc.Store(ctx, userID, AudioUpload{Size: int64(len(first)), Body: bytes.NewReader(first)})
	require.NoError(t, err)
	b, err := svc.Store(ctx, userID, AudioUpload{Size: int64(len(second)), Body: bytes.NewReader(second)})
	require.NoError(t, err)
	require.NotEqual(t, a.Key, b.Key)

	// dropping the later upload must not touch the earlier one
	require.NoError(t, svc.Discard(ctx, b.Key))
	rc, err := store.Open(ctx, a.Key)
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	keys, err := store.ListKeys(ctx, "recitations/"+userID.String())
	require.NoError(t, err)
	assert.Equal(t, []string{a.Key}, keys)
}
