package idx

import "strconv"

// RawRecord is one loosely-typed record as returned by the feed. Field names
// and value types vary by upstream result set, so nothing outside this
// package should reach into it; Normalize is the way out.
type RawRecord map[string]any

// ExternalID returns the provider-assigned listing identifier, trying the
// known synonyms in priority order.
func (r RawRecord) ExternalID() string {
	return r.str("listingID", "idxID", "id")
}

// first returns the value of the first key holding a non-empty value.
// Empty string, zero number, false and null all count as absent, which
// matches how the feed marks fields it has no data for.
func (r RawRecord) first(keys ...string) (any, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t == "" {
				continue
			}
		case float64:
			if t == 0 {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		return v, true
	}
	return nil, false
}

func (r RawRecord) str(keys ...string) string {
	v, ok := r.first(keys...)
	if !ok {
		return ""
	}
	return asString(v)
}

// intField parses the first present synonym as an integer. Unparsable input
// coerces to 0, and negatives clamp to 0.
func (r RawRecord) intField(keys ...string) int {
	v, ok := r.first(keys...)
	if !ok {
		return 0
	}
	var n int
	switch t := v.(type) {
	case float64:
		n = int(t)
	case string:
		if i, err := strconv.Atoi(t); err == nil {
			n = i
		} else if f, err := strconv.ParseFloat(t, 64); err == nil {
			n = int(f)
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

func (r RawRecord) floatField(keys ...string) float64 {
	v, ok := r.first(keys...)
	if !ok {
		return 0
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		if parsed, err := strconv.ParseFloat(t, 64); err == nil {
			f = parsed
		}
	}
	if f < 0 {
		return 0
	}
	return f
}

// geoField is floatField without the non-negative clamp; coordinates are
// legitimately negative.
func (r RawRecord) geoField(keys ...string) float64 {
	v, ok := r.first(keys...)
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if parsed, err := strconv.ParseFloat(t, 64); err == nil {
			return parsed
		}
	}
	return 0
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
