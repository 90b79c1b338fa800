package cache

import (
	"sort"
	"strings"
)

// Aggregate-view keys invalidated after every sync pass. Single-item and
// search entries expire via TTL instead.
var (
	KeyFeatured    = Key("featured", nil)
	KeyInventory   = Key("all-listings", nil)
	KeySoldPending = Key("soldpending", nil)
)

// Key derives a deterministic cache key from an endpoint name and its
// parameter map: idx:<endpoint> or idx:<endpoint>:k1=v1&k2=v2 with keys
// sorted, so identical logical queries always map to the same entry no
// matter the parameter order. Empty-valued parameters are dropped, matching
// the feed client's strict parameter filter.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return "idx:" + endpoint
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "idx:" + endpoint
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return "idx:" + endpoint + ":" + strings.Join(parts, "&")
}
