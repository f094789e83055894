// Package cache provides an in-process, multi-category response cache for
// geospatial weather lookups.
//
// It derives deterministic keys from rounded coordinates and canonicalized
// request parameters, enforces per-category TTL and capacity policies with
// LRU eviction, sweeps expired entries in the background, and tracks
// hit/miss/latency statistics.
package cache
