package constants

import "time"

// Redis Cache Configuration
// Centralizes Redis cache keys and TTL values for the QuickRide backend.
// Pattern: quickride:{module}:{operation}:{identifier?}

const (
	CACHE_PREFIX = "quickride"
)

// ================== CATALOG MODULE ==================

// Catalog data is admin-managed and changes rarely, so it carries the
// longest TTLs. Every admin write invalidates the whole catalog namespace.
const (
	CACHE_KEY_CATALOG_CITIES = CACHE_PREFIX + ":catalog:cities"
	CACHE_KEY_CATALOG_ROUTES = CACHE_PREFIX + ":catalog:routes"
	CACHE_KEY_CATALOG_BUSES  = CACHE_PREFIX + ":catalog:buses"

	// Per-leg bus listings ("quickride:catalog:buses:leg:accra-kumasi")
	CACHE_KEY_CATALOG_BUSES_FOR_LEG = CACHE_PREFIX + ":catalog:buses:leg:"
)

const (
	TTL_CATALOG_DEFAULT = 1 * time.Hour
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATELIMIT = CACHE_PREFIX + ":ratelimit:"
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_CATALOG_ALL = CACHE_PREFIX + ":catalog:*"
)

// BuildBusesForLegKey constructs the per-leg bus listing cache key
func BuildBusesForLegKey(legKey string) string {
	return CACHE_KEY_CATALOG_BUSES_FOR_LEG + legKey
}
