package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/quranstudy-backend/internal/platform/gcp"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/platform/objectstore"
)

var newAudioBucket = func(ctx context.Context, log *logger.Logger, cfg gcp.BucketConfig) (objectstore.Store, error) {
	bucket, err := gcp.NewAudioBucket(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

type StorageBootstrapErrorCode string

const (
	StorageBootstrapInvalidMode         StorageBootstrapErrorCode = "invalid_mode"
	StorageBootstrapMissingBucket       StorageBootstrapErrorCode = "missing_bucket"
	StorageBootstrapMissingEmulatorHost StorageBootstrapErrorCode = "missing_emulator_host"
	StorageBootstrapInvalidURL          StorageBootstrapErrorCode = "invalid_url"
	StorageBootstrapConnectFailed       StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code  StorageBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "audio storage bootstrap failed"
	}
	return fmt.Sprintf("audio storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveAudioStore picks the recitation audio backend: the local filesystem by
// default, or a GCS bucket (real or emulated).
func resolveAudioStore(ctx context.Context, log *logger.Logger, cfg StorageConfig) (objectstore.Store, error) {
	log.Info("Selecting audio storage provider", "mode", cfg.Mode)
	switch cfg.Mode {
	case "", "local":
		store, err := objectstore.NewLocalStore(log, cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, &StorageBootstrapError{Code: StorageBootstrapConnectFailed, Mode: "local", Cause: err}
		}
		return store, nil
	case string(gcp.StorageModeGCS), string(gcp.StorageModeGCSEmulator):
	default:
		err := &StorageBootstrapError{
			Code:  StorageBootstrapInvalidMode,
			Mode:  cfg.Mode,
			Cause: fmt.Errorf("unsupported storage mode %q", cfg.Mode),
		}
		log.Error("Audio storage provider selection failed", "mode", cfg.Mode, "error_code", err.Code)
		return nil, err
	}

	store, err := newAudioBucket(ctx, log, gcp.BucketConfig{
		Mode:          gcp.StorageMode(cfg.Mode),
		Bucket:        cfg.GCSBucket,
		EmulatorHost:  cfg.EmulatorHost,
		PublicBaseURL: cfg.PublicBaseURL,
	})
	if err != nil {
		classified := classifyStorageBootstrapError(cfg.Mode, err)
		log.Error("Audio storage provider bootstrap failed",
			"mode", cfg.Mode,
			"emulator_host", cfg.EmulatorHost,
			"error_code", classified.Code,
			"error", err,
		)
		return nil, classified
	}
	return store, nil
}

func classifyStorageBootstrapError(mode string, err error) *StorageBootstrapError {
	code := StorageBootstrapConnectFailed
	var cfgErr *gcp.ConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ConfigErrorInvalidMode:
			code = StorageBootstrapInvalidMode
		case gcp.ConfigErrorMissingBucket:
			code = StorageBootstrapMissingBucket
		case gcp.ConfigErrorMissingEmulatorHost:
			code = StorageBootstrapMissingEmulatorHost
		case gcp.ConfigErrorInvalidURL:
			code = StorageBootstrapInvalidURL
		}
	}
	return &StorageBootstrapError{Code: code, Mode: mode, Cause: err}
}
