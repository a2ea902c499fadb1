package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/observability"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
)

const (
	MaxAudioKB    = 10240
	maxAudioBytes = int64(MaxAudioKB) * 1024
	sniffLen      = 3072
	audioField    = "audio_file"
)

// AllowedAudioExtensions is the rendered list used in the mimes validation message.
const AllowedAudioExtensions = "wav, mp3, m4a"

// AudioRef identifies a stored upload.
type AudioRef struct {
	Key         string `json:"key"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// AudioUpload is one multipart file as handed over by the transport layer.
// Size may be -1 when unknown; the stream is then bounded while copying.
type AudioUpload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type AudioService interface {
	Store(ctx context.Context, userID uuid.UUID, in AudioUpload) (*AudioRef, error)
	Discard(ctx context.Context, key string) error
}

type audioService struct {
	log     *logger.Logger
	store   objectstore.Store
	metrics *observability.Metrics
	now     func() time.Time
}

func NewAudioService(log *logger.Logger, store objectstore.Store, metrics *observability.Metrics) AudioService {
	return &audioService{
		log:     log.With("service", "AudioService"),
		store:   store,
		metrics: metrics,
		now:     time.Now,
	}
}

// Store sniffs the upload, rejects anything that is not wav/mp3/m4a or exceeds
// MaxAudioKB, and writes it under recitations/{user}/{unix}-{uuid}.{ext}.
func (s *audioService) Store(ctx context.Context, userID uuid.UUID, in AudioUpload) (*AudioRef, error) {
	const op = "audio.store"
	if in.Body == nil {
		return nil, domainagg.FieldError(op, audioField, "validation.required")
	}
	if in.Size > maxAudioBytes {
		return nil, domainagg.FieldError(op, audioField, "validation.max_kb", MaxAudioKB)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload header: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, domainagg.FieldError(op, audioField, "validation.required")
	}

	mt := mimetype.Detect(head)
	ext, ok := audioExtension(mt)
	if !ok {
		s.log.Debug("Rejected upload type", "detected", mt.String(), "filename", in.Filename)
		return nil, domainagg.FieldError(op, audioField, "validation.mimes", AllowedAudioExtensions)
	}

	body := &countingReader{r: io.LimitReader(io.MultiReader(bytes.NewReader(head), in.Body), maxAudioBytes+1)}
	// the suffix keeps uploads within the same second apart
	key := fmt.Sprintf("recitations/%s/%d-%s.%s", userID, s.now().Unix(), uuid.NewString(), ext)
	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if err := s.store.Put(ctx, key, body, contentType); err != nil {
		return nil, fmt.Errorf("put %s: %w", key, err)
	}
	if body.n > maxAudioBytes {
		if derr := s.store.Delete(ctx, key); derr != nil {
			s.log.Warn("Failed to remove oversized upload", "key", key, "error", derr)
		}
		return nil, domainagg.FieldError(op, audioField, "validation.max_kb", MaxAudioKB)
	}

	s.metrics.ObserveUploadBytes(body.n)
	return &AudioRef{Key: key, URL: s.store.URL(key), ContentType: contentType, Size: body.n}, nil
}

func (s *audioService) Discard(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, objectstore.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// audioExtension walks the detected type and its parents looking for an
// accepted container.
func audioExtension(mt *mimetype.MIME) (string, bool) {
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("audio/wav"):
			return "wav", true
		case m.Is("audio/mpeg"):
			return "mp3", true
		case m.Is("audio/x-m4a"), m.Is("audio/mp4"):
			return "m4a", true
		}
	}
	return "", false
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
