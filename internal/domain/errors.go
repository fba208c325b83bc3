package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid: a
	// blank ingredient at the HTTP surface, or an unreadable/malformed input
	// file at the CLI runner.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUSDAAPIFailure is returned when the catalog client cannot be
	// constructed (missing credentials); the client itself never propagates
	// per-request transport errors, so this fires only at wiring time.
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrCacheUnavailable is returned when a cache lookup fails for a reason
	// other than a plain miss (ErrCacheMiss) - a degraded backing store, not
	// an absent key.
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrConfigMissing is returned when a required configuration value is absent
	ErrConfigMissing = errors.New("required configuration missing")
)
