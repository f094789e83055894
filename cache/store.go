package cache

import (
	"strings"
	"sync"
	"time"
)

// Entry is one cached response with its access metadata. The store owns all
// entries exclusively; callers only ever see the payload.
type Entry struct {
	// Key is the deterministic identifier produced by the Keyer.
	Key string

	// Payload is the cached response body, stored by reference and never
	// mutated after insertion.
	Payload []byte

	// WrittenAt is the creation time; the entry is stale once
	// now - WrittenAt > TTL.
	WrittenAt time.Time

	// TTL is the validity window, copied from the category policy at insert.
	TTL time.Duration

	// AccessCount is incremented on every hit. Informational only.
	AccessCount int64

	// LastAccessedAt is updated on every hit and drives LRU eviction.
	LastAccessedAt time.Time

	// ApproxSizeBytes is a best-effort size used for reporting, never for
	// eviction decisions.
	ApproxSizeBytes int64
}

// expired reports whether the entry is past its TTL at now.
func (e *Entry) expired(now time.Time) bool {
	return now.Sub(e.WrittenAt) > e.TTL
}

// entryStore maps keys to entries, partitioned by category so capacity
// enforcement and sweeps never scan across categories. A single RWMutex
// guards all operations; entries are small and every operation is O(1) or
// O(n) bounded by the category's MaxEntries.
type entryStore struct {
	mu      sync.RWMutex
	entries map[Category]map[string]*Entry
}

func newEntryStore(categories []Category) *entryStore {
	s := &entryStore{entries: make(map[Category]map[string]*Entry, len(categories))}
	for _, cat := range categories {
		s.entries[cat] = make(map[string]*Entry)
	}
	return s
}

// lookup returns the payload for key if present and fresh, touching the
// entry's access metadata. A stale entry is removed lazily and reported via
// the second return so the caller can account the expiration.
func (s *entryStore) lookup(category Category, key string, now time.Time) (payload []byte, ok, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.entries[category][key]
	if !found {
		return nil, false, false
	}
	if e.expired(now) {
		delete(s.entries[category], key)
		return nil, false, true
	}
	e.AccessCount++
	e.LastAccessedAt = now
	return e.Payload, true, false
}

// insert writes the entry, evicting the category's LRU victim first when a
// genuinely new key would exceed maxEntries. Overwriting an existing key
// never triggers eviction. Returns the evicted key, if any.
func (s *entryStore) insert(category Category, e *Entry, maxEntries int) (evicted string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.entries[category]
	if _, exists := m[e.Key]; !exists && len(m) >= maxEntries {
		evicted = lruVictim(m)
		delete(m, evicted)
	}
	m[e.Key] = e
	return evicted
}

// delete removes key from category, reporting whether it was present.
func (s *entryStore) delete(category Category, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[category][key]; !ok {
		return false
	}
	delete(s.entries[category], key)
	return true
}

// clear removes every entry and returns the number removed.
func (s *entryStore) clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for cat, m := range s.entries {
		n += len(m)
		s.entries[cat] = make(map[string]*Entry)
	}
	return n
}

// clearCategory removes every entry in category and returns the count.
func (s *entryStore) clearCategory(category Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries[category])
	s.entries[category] = make(map[string]*Entry)
	return n
}

// deleteByCoordinate removes, across all categories, every entry whose key
// carries the given rounded "{lat},{lon}" token, and returns the count.
func (s *entryStore) deleteByCoordinate(token string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, m := range s.entries {
		for key := range m {
			if keyCoordinate(key) == token {
				delete(m, key)
				n++
			}
		}
	}
	return n
}

// sweep removes every expired entry in category at now and returns the
// removed and total counts.
func (s *entryStore) sweep(category Category, now time.Time) (removed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.entries[category]
	total = len(m)
	for key, e := range m {
		if e.expired(now) {
			delete(m, key)
			removed++
		}
	}
	return removed, total
}

// keys returns the category's keys in unspecified order.
func (s *entryStore) keys(category Category) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := s.entries[category]
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

// len returns the total number of live entries.
func (s *entryStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, m := range s.entries {
		n += len(m)
	}
	return n
}

// categoryUsage reports entry count, approximate bytes, and cumulative hit
// count for one category. Derived on demand so there is no incremental
// bookkeeping to drift.
func (s *entryStore) categoryUsage(category Category) (entries int, bytes, accesses int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries[category] {
		entries++
		bytes += e.ApproxSizeBytes
		accesses += e.AccessCount
	}
	return entries, bytes, accesses
}

// keyCoordinate extracts the "{lat},{lon}" section from a key.
func keyCoordinate(key string) string {
	parts := strings.SplitN(key, keyDelimiter, 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
