package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Params is a flat set of named request options (unit preferences, forecast
// horizon, language, free-text queries). The cache treats values opaquely;
// they only influence key derivation.
type Params map[string]any

// coordPrecision is the number of decimal digits coordinates are rounded to
// before key derivation. Four digits is roughly 11 m, so requests differing
// only in floating-point noise collapse to the same key.
const coordPrecision = 4

// keyDelimiter separates the key sections: {category}:{lat},{lon}[:{hash}].
const keyDelimiter = ":"

// Sentinel coordinate for categories that are not keyed by location, such as
// geocode lookups. The distinguishing data goes entirely into Params.
const (
	NoLatitude  = 0.0
	NoLongitude = 0.0
)

// Keyer derives deterministic cache keys.
//
// Contract:
// - Determinism: identical inputs (after rounding and canonicalization) must
//   always produce an identical key, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives the cache key for a category, coordinate pair, and
	// parameter set.
	Key(category Category, lat, lon float64, params Params) string
}

// DefaultKeyer builds keys of the form {category}:{lat},{lon}[:{paramHash}].
// The category and rounded coordinates stay in plaintext so prefix-based
// invalidation can operate without decoding the hash; the parameter set is
// condensed to 8 hex characters of SHA-256 so key length stays bounded.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key derives a deterministic cache key.
func (k *DefaultKeyer) Key(category Category, lat, lon float64, params Params) string {
	var b strings.Builder
	b.WriteString(string(category))
	b.WriteString(keyDelimiter)
	b.WriteString(CoordinateToken(lat, lon))
	if h := hashParams(params); h != "" {
		b.WriteString(keyDelimiter)
		b.WriteString(h)
	}
	return b.String()
}

// RoundCoordinate formats a coordinate rounded to the fixed key precision.
func RoundCoordinate(v float64) string {
	scale := math.Pow10(coordPrecision)
	r := math.Round(v*scale) / scale
	if r == 0 {
		r = 0 // normalize negative zero
	}
	return strconv.FormatFloat(r, 'f', coordPrecision, 64)
}

// CoordinateToken returns the rounded "{lat},{lon}" section of a key. It is
// the unit of location-scoped invalidation.
func CoordinateToken(lat, lon float64) string {
	return RoundCoordinate(lat) + "," + RoundCoordinate(lon)
}

// hashParams canonicalizes params by sorting keys lexicographically, joining
// "key=value" pairs with "|", and condensing with SHA-256. Returns the empty
// string for an empty set.
func hashParams(params Params) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatParamValue(params[k]))
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:4]) // 8 hex chars
}

// formatParamValue renders a param value deterministically. Params are flat
// string/number/boolean options, so a small switch covers the closed set.
func formatParamValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Ensure DefaultKeyer implements Keyer
var _ Keyer = (*DefaultKeyer)(nil)
