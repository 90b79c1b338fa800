package idx

import (
	"reflect"
	"testing"
	"time"
)

// Raw records are built the way encoding/json would decode them: numbers as
// float64, never Go ints.

func testNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestNormalize_FullRecord(t *testing.T) {
	now := testNow()
	r := RawRecord{
		"listingID":            "a11111",
		"address":              "123 Main St",
		"cityName":             "Orange",
		"state":                "CA",
		"zipcode":              "92866",
		"listPrice":            float64(850000),
		"bedrooms":             float64(4),
		"totalBaths":           float64(2.5),
		"sqFt":                 "2400",
		"remarksConcat":        "Beautiful home near the plaza.",
		"propType":             "SFR",
		"yearBuilt":            float64(1998),
		"propStatus":           "Active",
		"listingDate":          "2024-06-10",
		"latitude":             float64(33.7879),
		"longitude":            float64(-117.8531),
		"image":                "https://photos.example.com/1.jpg",
		"listingAgentFullName": "Jane Smith",
	}

	got := Normalize(r, now)

	if got.ID != "a11111" {
		t.Errorf("ID = %q, want a11111", got.ID)
	}
	if got.Title != "123 Main St, Orange" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Price != 850000 {
		t.Errorf("Price = %d", got.Price)
	}
	if got.Beds != 4 || got.Baths != 2.5 || got.Sqft != 2400 {
		t.Errorf("Beds/Baths/Sqft = %d/%v/%d", got.Beds, got.Baths, got.Sqft)
	}
	if got.PropertyType != TypeSingleFamily {
		t.Errorf("PropertyType = %q", got.PropertyType)
	}
	if got.Status != StatusForSale {
		t.Errorf("Status = %q", got.Status)
	}
	if got.YearBuilt != 1998 {
		t.Errorf("YearBuilt = %d", got.YearBuilt)
	}
	if got.Longitude != -117.8531 {
		t.Errorf("Longitude = %v, negative coordinates must survive", got.Longitude)
	}
	if !got.IsNew {
		t.Error("IsNew = false, listing is 5 days old")
	}
	if got.IsFeatured {
		t.Error("IsFeatured = true, feed records never arrive featured")
	}
	if got.MLSNumber != "a11111" {
		t.Errorf("MLSNumber = %q", got.MLSNumber)
	}
	if got.Agent.Name != "Jane Smith" {
		t.Errorf("Agent.Name = %q", got.Agent.Name)
	}
	if got.Agent.Phone != DefaultAgent.Phone {
		t.Errorf("Agent.Phone = %q, unset fields keep the default agent's", got.Agent.Phone)
	}
	if !reflect.DeepEqual(got.Images, []string{"https://photos.example.com/1.jpg"}) {
		t.Errorf("Images = %v", got.Images)
	}
}

func TestNormalize_Defaults(t *testing.T) {
	now := testNow()
	got := Normalize(RawRecord{"listingID": "x1"}, now)

	if got.YearBuilt != now.Year() {
		t.Errorf("YearBuilt = %d, want current year %d", got.YearBuilt, now.Year())
	}
	if got.ListingDate != now.UTC().Format(time.RFC3339) {
		t.Errorf("ListingDate = %q, want now", got.ListingDate)
	}
	if got.IsNew {
		t.Error("IsNew = true, a record without a listing date is not new")
	}
	if got.PropertyType != TypeSingleFamily {
		t.Errorf("PropertyType = %q", got.PropertyType)
	}
	if got.Status != StatusForSale {
		t.Errorf("Status = %q", got.Status)
	}
	if !reflect.DeepEqual(got.Images, []string{placeholderImageURL}) {
		t.Errorf("Images = %v, want placeholder", got.Images)
	}
	if got.Agent != DefaultAgent {
		t.Errorf("Agent = %+v, want default", got.Agent)
	}
	if len(got.Features) != 0 {
		t.Errorf("Features = %v, want empty", got.Features)
	}
}

func TestNormalize_FieldSynonyms(t *testing.T) {
	now := testNow()
	tests := []struct {
		name  string
		raw   RawRecord
		check func(t *testing.T, l Listing)
	}{
		{
			name: "price falls back to currentPrice",
			raw:  RawRecord{"currentPrice": float64(500000)},
			check: func(t *testing.T, l Listing) {
				if l.Price != 500000 {
					t.Errorf("Price = %d", l.Price)
				}
			},
		},
		{
			name: "listPrice wins over currentPrice",
			raw:  RawRecord{"listPrice": float64(600000), "currentPrice": float64(500000)},
			check: func(t *testing.T, l Listing) {
				if l.Price != 600000 {
					t.Errorf("Price = %d", l.Price)
				}
			},
		},
		{
			name: "empty primary defers to fallback",
			raw:  RawRecord{"address": "", "streetName": "9 Oak Ave"},
			check: func(t *testing.T, l Listing) {
				if l.Address != "9 Oak Ave" {
					t.Errorf("Address = %q", l.Address)
				}
			},
		},
		{
			name: "zero primary defers to fallback",
			raw:  RawRecord{"bedrooms": float64(0), "beds": float64(3)},
			check: func(t *testing.T, l Listing) {
				if l.Beds != 3 {
					t.Errorf("Beds = %d", l.Beds)
				}
			},
		},
		{
			name: "id chain listingID then idxID then id",
			raw:  RawRecord{"idxID": "b22"},
			check: func(t *testing.T, l Listing) {
				if l.ID != "b22" {
					t.Errorf("ID = %q", l.ID)
				}
			},
		},
		{
			name: "numeric strings parse",
			raw:  RawRecord{"listPrice": "750000", "totalBaths": "1.75"},
			check: func(t *testing.T, l Listing) {
				if l.Price != 750000 || l.Baths != 1.75 {
					t.Errorf("Price/Baths = %d/%v", l.Price, l.Baths)
				}
			},
		},
		{
			name: "garbage numerics coerce to zero",
			raw:  RawRecord{"listPrice": "call for price", "sqFt": "n/a"},
			check: func(t *testing.T, l Listing) {
				if l.Price != 0 || l.Sqft != 0 {
					t.Errorf("Price/Sqft = %d/%d", l.Price, l.Sqft)
				}
			},
		},
		{
			name: "negative counts clamp to zero",
			raw:  RawRecord{"listPrice": float64(-1), "bedrooms": float64(-2)},
			check: func(t *testing.T, l Listing) {
				if l.Price != 0 || l.Beds != 0 {
					t.Errorf("Price/Beds = %d/%d", l.Price, l.Beds)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize(tt.raw, now))
		})
	}
}

func TestNormalize_TypeAndStatusMaps(t *testing.T) {
	now := testNow()
	typeCases := map[string]string{
		"SFR":          TypeSingleFamily,
		"CND":          TypeCondo,
		"Condominium":  TypeCondo,
		"TWN":          TypeTownhouse,
		"MFR":          TypeMultiFamily,
		"LND":          TypeLand,
		"COM":          TypeCommercial,
		"Mobile Home":  TypeSingleFamily,
		"":             TypeSingleFamily,
	}
	for in, want := range typeCases {
		if got := Normalize(RawRecord{"propType": in}, now).PropertyType; got != want {
			t.Errorf("propType %q: got %q, want %q", in, got, want)
		}
	}

	statusCases := map[string]string{
		"Active":    StatusForSale,
		"Pending":   StatusPending,
		"Sold":      StatusSold,
		"Withdrawn": StatusSold,
		"Expired":   StatusSold,
		"Unknown":   StatusForSale,
	}
	for in, want := range statusCases {
		if got := Normalize(RawRecord{"propStatus": in}, now).Status; got != want {
			t.Errorf("propStatus %q: got %q, want %q", in, got, want)
		}
	}
}

func TestMapPropertyTypeToIDX(t *testing.T) {
	if got := MapPropertyTypeToIDX(TypeCondo); got != "CND" {
		t.Errorf("condo = %q", got)
	}
	if got := MapPropertyTypeToIDX("castle"); got != "SFR" {
		t.Errorf("unknown type = %q, want SFR", got)
	}
}

func TestExtractFeatures_Order(t *testing.T) {
	r := RawRecord{
		"cooling":      "Central Air",
		"heating":      "Forced Air",
		"architecture": "Craftsman",
		"view":         "Mountain",
		"waterfront":   "Y",
		"fireplaceYN":  "Y",
		"pool":         "Y",
		"garage":       float64(2),
	}
	want := []string{
		"2-Car Garage",
		"Swimming Pool",
		"Fireplace",
		"Waterfront",
		"Mountain View",
		"Craftsman",
		"Forced Air Heating",
		"Central Air Cooling",
	}
	if got := extractFeatures(r); !reflect.DeepEqual(got, want) {
		t.Errorf("features = %v, want %v", got, want)
	}
}

func TestExtractFeatures_NoneView(t *testing.T) {
	got := extractFeatures(RawRecord{"view": "None"})
	if len(got) != 0 {
		t.Errorf("features = %v, a None view is not a feature", got)
	}
}

func TestExtractImages(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want []string
	}{
		{
			name: "singular string",
			raw:  RawRecord{"image": "https://p/1.jpg"},
			want: []string{"https://p/1.jpg"},
		},
		{
			name: "singular array of strings",
			raw:  RawRecord{"image": []any{"https://p/1.jpg", "https://p/2.jpg"}},
			want: []string{"https://p/1.jpg", "https://p/2.jpg"},
		},
		{
			name: "array of url objects",
			raw:  RawRecord{"image": []any{map[string]any{"url": "https://p/3.jpg", "caption": "front"}}},
			want: []string{"https://p/3.jpg"},
		},
		{
			name: "plural images appended after singular",
			raw: RawRecord{
				"image":  "https://p/1.jpg",
				"images": []any{"https://p/2.jpg"},
			},
			want: []string{"https://p/1.jpg", "https://p/2.jpg"},
		},
		{
			name: "no images yields placeholder",
			raw:  RawRecord{},
			want: []string{placeholderImageURL},
		},
		{
			name: "empty strings are not images",
			raw:  RawRecord{"image": []any{"", ""}},
			want: []string{placeholderImageURL},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractImages(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("images = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNewListing_Window(t *testing.T) {
	now := testNow()
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"yesterday", now.Add(-24 * time.Hour).Format(time.RFC3339), true},
		{"exactly seven days", now.Add(-7 * 24 * time.Hour).Format(time.RFC3339), true},
		{"just past seven days", now.Add(-7*24*time.Hour - time.Second).Format(time.RFC3339), false},
		{"space separated layout", "2024-06-14 08:30:00", true},
		{"date only layout", "2024-06-13", true},
		{"unparsable", "last tuesday", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewListing(tt.date, now); got != tt.want {
				t.Errorf("isNewListing(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestNormalizePhotos(t *testing.T) {
	records := []RawRecord{
		{"url": "https://p/1.jpg", "caption": "Front", "order": float64(1)},
		{"image_url": "https://p/2.jpg"},
	}
	got := NormalizePhotos(records)
	want := []Photo{
		{URL: "https://p/1.jpg", Caption: "Front", Order: 1},
		{URL: "https://p/2.jpg"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("photos = %+v, want %+v", got, want)
	}
}
