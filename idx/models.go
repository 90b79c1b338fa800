package idx

// Property type values used throughout the API and the local store.
const (
	TypeSingleFamily = "single-family"
	TypeCondo        = "condo"
	TypeTownhouse    = "townhouse"
	TypeMultiFamily  = "multi-family"
	TypeLand         = "land"
	TypeCommercial   = "commercial"
)

// Listing status values.
const (
	StatusForSale = "for-sale"
	StatusForRent = "for-rent"
	StatusPending = "pending"
	StatusSold    = "sold"
)

// Listing is the canonical property shape. Everything downstream of the
// normalizer (store, cache, handlers) operates on this type only.
type Listing struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Price        int      `json:"price"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	Beds         int      `json:"beds"`
	Baths        float64  `json:"baths"`
	Sqft         int      `json:"sqft"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType"`
	YearBuilt    int      `json:"yearBuilt"`
	Features     []string `json:"features"`
	Images       []string `json:"images"`
	IsFeatured   bool     `json:"isFeatured"`
	IsNew        bool     `json:"isNew"`
	Status       string   `json:"status"`
	ListingDate  string   `json:"listingDate"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	MLSNumber    string   `json:"mlsNumber"`
	Agent        Agent    `json:"agent"`
}

type Agent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// DefaultAgent is attached to listings whose feed record carries no agent
// details, and owns every synced row in the local store.
var DefaultAgent = Agent{
	ID:    "rm1",
	Name:  "Roger Martinez",
	Photo: "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg",
	Phone: "(714) 555-0101",
	Email: "roger@2020realtors.com",
}

type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
	Order   int    `json:"order"`
}
