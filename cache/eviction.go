package cache

// lruVictim selects the least-recently-used entry of one category: the entry
// with the minimum LastAccessedAt, ties broken by the lexicographically
// smaller key so selection is deterministic. The linear scan is acceptable
// because MaxEntries is bounded by policy to the low thousands; a much larger
// catalog would want an ordered structure here instead.
//
// Callers must hold the store's write lock and pass a non-empty map.
func lruVictim(m map[string]*Entry) string {
	var victim string
	for key, e := range m {
		if victim == "" {
			victim = key
			continue
		}
		v := m[victim]
		if e.LastAccessedAt.Before(v.LastAccessedAt) ||
			(e.LastAccessedAt.Equal(v.LastAccessedAt) && key < victim) {
			victim = key
		}
	}
	return victim
}
