package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
)

const ioTimeout = 2 * time.Minute

// AudioBucket stores recitation uploads in a single GCS bucket. It satisfies
// objectstore.Store.
type AudioBucket struct {
	log    *logger.Logger
	client *storage.Client
	cfg    BucketConfig
}

func NewAudioBucket(ctx context.Context, log *logger.Logger, cfg BucketConfig) (*AudioBucket, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return nil, fmt.Errorf("validate bucket config: %w", err)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	serviceLog := log.With("service", "AudioBucket")
	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
	)
	return &AudioBucket{log: serviceLog, client: client, cfg: cfg}, nil
}

func newStorageClient(ctx context.Context, cfg BucketConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		// the storage client only honours the emulator through this variable
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *AudioBucket) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()

	w := b.client.Bucket(b.cfg.Bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close GCS writer: %w", err)
	}
	return nil
}

func (b *AudioBucket) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// cancel is tied to Close so the reader outlives this call
	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	r, err := b.client.Bucket(b.cfg.Bucket).Object(key).NewReader(ctx)
	if err != nil {
		cancel()
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, objectstore.ErrNotFound
		}
		return nil, fmt.Errorf("open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (b *AudioBucket) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()
	err := b.client.Bucket(b.cfg.Bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete GCS object: %w", err)
	}
	return nil
}

// ListKeys returns every key under prefix, used by the maintenance CLI to audit a
// user's uploads.
func (b *AudioBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	it := b.client.Bucket(b.cfg.Bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	var keys []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list GCS objects: %w", err)
		}
		keys = append(keys, attrs.Name)
	}
	return keys, nil
}

func (b *AudioBucket) URL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	switch {
	case b.cfg.IsEmulatorMode() && b.cfg.PublicBaseURL != "":
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media",
			b.cfg.PublicBaseURL, url.PathEscape(b.cfg.Bucket), url.PathEscape(key))
	case b.cfg.PublicBaseURL != "":
		return b.cfg.PublicBaseURL + "/" + key
	default:
		return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.cfg.Bucket, key)
	}
}

func (b *AudioBucket) Close() error {
	return b.client.Close()
}

type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}
