package idx

// Deduplicate collapses raw records pulled from multiple result sets within
// one sync pass into at most one record per external id. The earliest
// occurrence wins and input order is preserved. Records without any id-like
// field have no identity to merge on and are all kept; the sync pass skips
// them later.
func Deduplicate(records []RawRecord) []RawRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]RawRecord, 0, len(records))
	for _, r := range records {
		id := r.ExternalID()
		if id != "" {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}
