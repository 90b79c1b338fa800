package idx

import (
	"fmt"
	"strings"
	"time"
)

const placeholderImageURL = "https://images.pexels.com/photos/106399/pexels-photo-106399.jpeg"

// newListingWindow is how far back a listing date may be for the listing to
// still count as new. The boundary is inclusive: exactly 7 days old is new.
const newListingWindow = 7 * 24 * time.Hour

var propertyTypeFromIDX = map[string]string{
	"SFR":                       TypeSingleFamily,
	"Single Family Residential": TypeSingleFamily,
	"Residential":               TypeSingleFamily,
	"CND":                       TypeCondo,
	"Condominium":               TypeCondo,
	"TWN":                       TypeTownhouse,
	"Townhouse":                 TypeTownhouse,
	"MFR":                       TypeMultiFamily,
	"Multi-Family":              TypeMultiFamily,
	"LND":                       TypeLand,
	"Land":                      TypeLand,
	"COM":                       TypeCommercial,
	"Commercial":                TypeCommercial,
}

var propertyTypeToIDX = map[string]string{
	TypeSingleFamily: "SFR",
	TypeCondo:        "CND",
	TypeTownhouse:    "TWN",
	TypeMultiFamily:  "MFR",
	TypeLand:         "LND",
	TypeCommercial:   "COM",
}

var statusFromIDX = map[string]string{
	"Active":    StatusForSale,
	"Pending":   StatusPending,
	"Sold":      StatusSold,
	"Withdrawn": StatusSold,
	"Expired":   StatusSold,
}

// MapPropertyTypeToIDX translates a canonical property type into the feed's
// short code for outgoing search requests. Unknown types search as SFR.
func MapPropertyTypeToIDX(t string) string {
	if code, ok := propertyTypeToIDX[t]; ok {
		return code
	}
	return "SFR"
}

// Normalize converts one raw feed record into a canonical Listing. It never
// fails: missing or malformed fields degrade to documented defaults. The
// caller supplies now because isNew and the year-built fallback depend on
// it; production callers pass time.Now().
func Normalize(r RawRecord, now time.Time) Listing {
	address := r.str("address", "streetName")
	city := r.str("cityName", "city")

	listingDate := r.str("listingDate", "dateAdded")
	if listingDate == "" {
		listingDate = now.UTC().Format(time.RFC3339)
	}

	yearBuilt := r.intField("yearBuilt", "yearBuiltEffective")
	if yearBuilt == 0 {
		yearBuilt = now.Year()
	}

	return Listing{
		ID:           r.ExternalID(),
		Title:        strings.TrimSpace(address + ", " + city),
		Price:        r.intField("listPrice", "currentPrice"),
		Address:      address,
		City:         city,
		State:        r.str("state", "stateAbbreviation"),
		Zip:          r.str("zipcode", "postalCode"),
		Beds:         r.intField("bedrooms", "beds"),
		Baths:        r.floatField("totalBaths", "baths"),
		Sqft:         r.intField("sqFt", "livingArea"),
		Description:  r.str("remarksConcat", "publicRemarks", "description"),
		PropertyType: mapPropertyType(r.str("propType", "propertyType")),
		YearBuilt:    yearBuilt,
		Features:     extractFeatures(r),
		Images:       extractImages(r),
		IsFeatured:   false,
		IsNew:        isNewListing(r.str("listingDate", "dateAdded"), now),
		Status:       mapStatus(r.str("propStatus", "status")),
		ListingDate:  listingDate,
		Latitude:     r.geoField("latitude"),
		Longitude:    r.geoField("longitude"),
		MLSNumber:    r.str("listingID", "idxID", "mlsNumber"),
		Agent:        extractAgent(r),
	}
}

// NormalizePhotos maps raw image records to the photo shape served by the
// photos endpoint.
func NormalizePhotos(records []RawRecord) []Photo {
	photos := make([]Photo, 0, len(records))
	for _, r := range records {
		photos = append(photos, Photo{
			URL:     r.str("url", "image_url"),
			Caption: r.str("caption"),
			Order:   r.intField("order"),
		})
	}
	return photos
}

func mapPropertyType(idxType string) string {
	if t, ok := propertyTypeFromIDX[idxType]; ok {
		return t
	}
	return TypeSingleFamily
}

func mapStatus(idxStatus string) string {
	if s, ok := statusFromIDX[idxStatus]; ok {
		return s
	}
	return StatusForSale
}

// extractFeatures builds human-readable feature tags from the feed's flag
// fields, in a fixed order. Absent or falsy fields contribute nothing.
func extractFeatures(r RawRecord) []string {
	features := []string{}
	if garage := r.intField("garage"); garage > 0 {
		features = append(features, fmt.Sprintf("%d-Car Garage", garage))
	}
	if r.str("pool") == "Y" || r.str("poolPrivateYN") == "Y" {
		features = append(features, "Swimming Pool")
	}
	if r.str("fireplace") == "Y" || r.str("fireplaceYN") == "Y" {
		features = append(features, "Fireplace")
	}
	if r.str("waterfront") == "Y" || r.str("waterfrontYN") == "Y" {
		features = append(features, "Waterfront")
	}
	if view := r.str("view"); view != "" && view != "None" {
		features = append(features, view+" View")
	}
	if arch := r.str("architecture"); arch != "" {
		features = append(features, arch)
	}
	if heating := r.str("heating"); heating != "" {
		features = append(features, heating+" Heating")
	}
	if cooling := r.str("cooling"); cooling != "" {
		features = append(features, cooling+" Cooling")
	}
	return features
}

// extractImages collects photo URLs from both the singular image field
// (bare string, or array of strings or {url} objects) and the plural images
// array. A listing never ends up without images; the placeholder stands in
// when the feed has none.
func extractImages(r RawRecord) []string {
	images := []string{}
	appendImage := func(v any) {
		switch t := v.(type) {
		case string:
			if t != "" {
				images = append(images, t)
			}
		case map[string]any:
			if u, ok := t["url"].(string); ok && u != "" {
				images = append(images, u)
			}
		}
	}
	if v, ok := r["image"]; ok {
		if items, isArray := v.([]any); isArray {
			for _, item := range items {
				appendImage(item)
			}
		} else {
			appendImage(v)
		}
	}
	if items, ok := r["images"].([]any); ok {
		for _, item := range items {
			appendImage(item)
		}
	}
	if len(images) == 0 {
		images = append(images, placeholderImageURL)
	}
	return images
}

func extractAgent(r RawRecord) Agent {
	agent := DefaultAgent
	if name := r.str("listingAgentFullName", "agentName"); name != "" {
		agent.Name = name
	}
	if phone := r.str("listingOfficePhone"); phone != "" {
		agent.Phone = phone
	}
	if email := r.str("listingAgentEmail"); email != "" {
		agent.Email = email
	}
	return agent
}

func isNewListing(listingDate string, now time.Time) bool {
	if listingDate == "" {
		return false
	}
	d, ok := parseListingDate(listingDate)
	if !ok {
		return false
	}
	return now.Sub(d) <= newListingWindow
}

func parseListingDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
