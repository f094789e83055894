package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrUnknownCategory indicates a category with no configured policy.
	// This is a configuration fault at the call site, not a runtime
	// condition: categories form a closed set established at startup.
	ErrUnknownCategory = errors.New("cache: unknown category")

	// ErrNilCache indicates a nil *Cache was provided.
	ErrNilCache = errors.New("cache: cache is nil")

	// ErrNilFetcher indicates a nil FetcherFunc was provided.
	ErrNilFetcher = errors.New("cache: fetcher is nil")

	// ErrNoPolicies indicates an empty policy set.
	ErrNoPolicies = errors.New("cache: no category policies configured")

	// ErrInvalidPolicy indicates a policy with a non-positive TTL,
	// capacity, or sweep interval.
	ErrInvalidPolicy = errors.New("cache: invalid policy")

	// ErrInvalidCategory indicates a category name that is empty or
	// contains the key delimiter.
	ErrInvalidCategory = errors.New("cache: invalid category name")

	// ErrAlreadyStarted indicates Start was called on a running cache.
	ErrAlreadyStarted = errors.New("cache: already started")
)
