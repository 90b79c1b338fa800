package listings

import (
	"testing"
)

func TestSearchParams_Normalized(t *testing.T) {
	tests := []struct {
		name               string
		in                 SearchParams
		wantLimit, wantOff int
	}{
		{"defaults", SearchParams{}, 20, 0},
		{"limit capped", SearchParams{Limit: 500}, 100, 0},
		{"negative offset clamped", SearchParams{Limit: 10, Offset: -5}, 10, 0},
		{"valid passthrough", SearchParams{Limit: 50, Offset: 40}, 50, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.normalized()
			if got.Limit != tt.wantLimit || got.Offset != tt.wantOff {
				t.Errorf("normalized() = limit %d offset %d, want %d/%d",
					got.Limit, got.Offset, tt.wantLimit, tt.wantOff)
			}
		})
	}
}

func TestSearchParams_Upstream(t *testing.T) {
	p := SearchParams{
		City:         "Orange",
		MinPrice:     500000,
		Beds:         3,
		Baths:        2.5,
		PropertyType: "condo",
	}
	got := p.upstream()

	if got["city"] != "Orange" {
		t.Errorf("city = %q", got["city"])
	}
	if got["minListPrice"] != "500000" {
		t.Errorf("minListPrice = %q", got["minListPrice"])
	}
	if got["bedrooms"] != "3" {
		t.Errorf("bedrooms = %q", got["bedrooms"])
	}
	if got["bathrooms"] != "2.5" {
		t.Errorf("bathrooms = %q", got["bathrooms"])
	}
	if got["propertyType"] != "CND" {
		t.Errorf("propertyType = %q, public names map to feed codes", got["propertyType"])
	}
	if _, ok := got["maxListPrice"]; ok {
		t.Error("maxListPrice present for unset filter")
	}
}

func TestSearchParams_CacheKeyCoversPagination(t *testing.T) {
	base := SearchParams{City: "Orange", Limit: 20, Offset: 0}
	page2 := SearchParams{City: "Orange", Limit: 20, Offset: 20}

	if base.cacheKey() == page2.cacheKey() {
		t.Error("different pages share a cache key")
	}
	if base.cacheKey() != (SearchParams{City: "Orange", Limit: 20, Offset: 0}).cacheKey() {
		t.Error("identical queries map to different cache keys")
	}
}
