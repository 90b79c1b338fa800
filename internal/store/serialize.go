package store

import "encoding/json"

// Features and images persist as JSON text and must round-trip through the
// store byte-for-byte as ordered lists.

func encodeStringList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeStringList(s string) []string {
	if s == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}
