package cache

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies a class of cached response. Each category carries its
// own TTL/capacity policy and the set of categories is fixed at startup.
type Category string

// Canonical categories for a weather data provider.
const (
	// CategoryCurrent holds current-conditions responses.
	CategoryCurrent Category = "current"
	// CategoryForecast holds multi-day forecast responses.
	CategoryForecast Category = "forecast"
	// CategoryHourly holds hourly forecast responses.
	CategoryHourly Category = "hourly"
	// CategoryGeocode holds name-to-coordinate lookup responses. Geocode
	// entries are keyed by the query folded into params, not by coordinate.
	CategoryGeocode Category = "geocode"
)

// Policy configures caching behavior for one category.
type Policy struct {
	// TTL is the validity window. An entry is stale once its age exceeds TTL.
	TTL time.Duration

	// MaxEntries caps the number of live entries in the category. Inserting
	// beyond the cap evicts the least-recently-used entry of that category.
	MaxEntries int

	// SweepInterval is how often the background sweeper scans this category
	// for expired entries.
	SweepInterval time.Duration
}

// Validate checks that the policy fields are usable.
func (p Policy) Validate() error {
	if p.TTL <= 0 {
		return fmt.Errorf("%w: TTL must be positive", ErrInvalidPolicy)
	}
	if p.MaxEntries <= 0 {
		return fmt.Errorf("%w: MaxEntries must be positive", ErrInvalidPolicy)
	}
	if p.SweepInterval <= 0 {
		return fmt.Errorf("%w: SweepInterval must be positive", ErrInvalidPolicy)
	}
	return nil
}

// PolicySet is the per-category configuration table. It is established at
// construction and never mutated afterward.
type PolicySet map[Category]Policy

// DefaultPolicies returns the default per-category policy table:
// a short-TTL, high-capacity policy for fast-changing current conditions,
// medium policies for the two forecast categories, and a long-TTL policy for
// name-keyed geocode results. The numbers are tuning knobs, not contracts.
func DefaultPolicies() PolicySet {
	return PolicySet{
		CategoryCurrent:  {TTL: 10 * time.Minute, MaxEntries: 1000, SweepInterval: 5 * time.Minute},
		CategoryForecast: {TTL: time.Hour, MaxEntries: 500, SweepInterval: 15 * time.Minute},
		CategoryHourly:   {TTL: 30 * time.Minute, MaxEntries: 500, SweepInterval: 10 * time.Minute},
		CategoryGeocode:  {TTL: 24 * time.Hour, MaxEntries: 1000, SweepInterval: time.Hour},
	}
}

// Validate checks every policy in the set and the category names themselves.
// Category names must be non-empty and must not contain the key delimiter,
// since keys are prefixed by category in plaintext.
func (ps PolicySet) Validate() error {
	if len(ps) == 0 {
		return ErrNoPolicies
	}
	for cat, pol := range ps {
		if cat == "" || strings.Contains(string(cat), keyDelimiter) {
			return fmt.Errorf("%w: %q", ErrInvalidCategory, cat)
		}
		if err := pol.Validate(); err != nil {
			return fmt.Errorf("category %q: %w", cat, err)
		}
	}
	return nil
}

// Get returns the policy for category. An unknown category is a
// configuration fault and is surfaced as ErrUnknownCategory rather than a
// silent default.
func (ps PolicySet) Get(category Category) (Policy, error) {
	pol, ok := ps[category]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return pol, nil
}

// Categories returns the configured category names in unspecified order.
func (ps PolicySet) Categories() []Category {
	cats := make([]Category, 0, len(ps))
	for cat := range ps {
		cats = append(cats, cat)
	}
	return cats
}
