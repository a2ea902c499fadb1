package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type StorageMode string

const (
	StorageModeGCS         StorageMode = "gcs"
	StorageModeGCSEmulator StorageMode = "gcs_emulator"
)

// BucketConfig selects the bucket holding recitation audio and how to reach it.
type BucketConfig struct {
	Mode          StorageMode
	Bucket        string
	EmulatorHost  string
	PublicBaseURL string
}

func (cfg BucketConfig) IsEmulatorMode() bool { return cfg.Mode == StorageModeGCSEmulator }

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidURL          ConfigErrorCode = "invalid_url"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid bucket config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid storage mode %q (allowed: %q, %q)", e.Value, StorageModeGCS, StorageModeGCSEmulator)
	case ConfigErrorMissingBucket:
		return "gcs storage requires a bucket name"
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("storage mode %q requires an emulator host", StorageModeGCSEmulator)
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid url %q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid bucket config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Normalize trims the config and derives the public base URL for the emulator.
func (cfg BucketConfig) Normalize() (BucketConfig, error) {
	cfg.Mode = StorageMode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	cfg.Bucket = strings.TrimSpace(cfg.Bucket)
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	cfg.PublicBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")

	switch cfg.Mode {
	case StorageModeGCS, StorageModeGCSEmulator:
	default:
		return cfg, &ConfigError{Code: ConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.Bucket == "" {
		return cfg, &ConfigError{Code: ConfigErrorMissingBucket}
	}
	if cfg.IsEmulatorMode() {
		if cfg.EmulatorHost == "" {
			return cfg, &ConfigError{Code: ConfigErrorMissingEmulatorHost}
		}
		if err := checkAbsoluteURL(cfg.EmulatorHost); err != nil {
			return cfg, err
		}
		if cfg.PublicBaseURL == "" {
			cfg.PublicBaseURL = cfg.EmulatorHost
		}
	}
	if cfg.PublicBaseURL != "" {
		if err := checkAbsoluteURL(cfg.PublicBaseURL); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}
