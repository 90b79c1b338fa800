package listings

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/cache"
)

// Per-endpoint cache lifetimes.
const (
	featuredTTL    = 15 * time.Minute
	searchTTL      = 5 * time.Minute
	propertyTTL    = 10 * time.Minute
	photosTTL      = 30 * time.Minute
	inventoryTTL   = 10 * time.Minute
	soldPendingTTL = 30 * time.Minute
)

// Service owns the feed read path: every lookup short-circuits on a live
// cache entry, otherwise fetches from the feed, normalizes, caches and
// returns. Cache failures are logged and ignored; the cache is advisory.
type Service struct {
	Client *idx.Client
	Cache  *cache.Cache

	// Now is substituted in tests; nil means time.Now.
	Now func() time.Time
}

type AggregateResult struct {
	Properties []idx.Listing `json:"properties"`
	Total      int           `json:"total"`
}

type SearchResult struct {
	Properties []idx.Listing `json:"properties"`
	Total      int           `json:"total"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
}

type PropertyResult struct {
	Property idx.Listing `json:"property"`
}

type PhotosResult struct {
	Photos []idx.Photo `json:"photos"`
}

func (s *Service) Configured() bool { return s.Client.Configured() }

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Featured(ctx context.Context) (AggregateResult, error) {
	return s.aggregate(ctx, cache.KeyFeatured, featuredTTL, s.Client.Featured)
}

func (s *Service) Inventory(ctx context.Context) (AggregateResult, error) {
	return s.aggregate(ctx, cache.KeyInventory, inventoryTTL, s.Client.Listings)
}

func (s *Service) SoldPending(ctx context.Context) (AggregateResult, error) {
	return s.aggregate(ctx, cache.KeySoldPending, soldPendingTTL, s.Client.SoldPending)
}

func (s *Service) aggregate(ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) ([]idx.RawRecord, error)) (AggregateResult, error) {
	var out AggregateResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	records, err := fetch(ctx)
	if err != nil {
		return out, err
	}
	out = AggregateResult{Properties: s.normalizeAll(records)}
	out.Total = len(out.Properties)
	s.cachePut(ctx, key, out, ttl)
	return out, nil
}

// SearchParams mirrors the public search endpoint's query surface.
type SearchParams struct {
	City         string
	State        string
	Zipcode      string
	MinPrice     int
	MaxPrice     int
	Beds         int
	Baths        float64
	PropertyType string
	SqftMin      int
	SqftMax      int
	Limit        int
	Offset       int
}

func (p SearchParams) normalized() SearchParams {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// upstream translates the public parameters into the feed's own field
// names. Unset values are left out entirely.
func (p SearchParams) upstream() map[string]string {
	out := map[string]string{
		"city":    p.City,
		"state":   p.State,
		"zipcode": p.Zipcode,
	}
	setInt := func(k string, v int) {
		if v > 0 {
			out[k] = strconv.Itoa(v)
		}
	}
	setInt("minListPrice", p.MinPrice)
	setInt("maxListPrice", p.MaxPrice)
	setInt("bedrooms", p.Beds)
	setInt("minSqft", p.SqftMin)
	setInt("maxSqft", p.SqftMax)
	if p.Baths > 0 {
		out["bathrooms"] = strconv.FormatFloat(p.Baths, 'f', -1, 64)
	}
	if p.PropertyType != "" {
		out["propertyType"] = idx.MapPropertyTypeToIDX(p.PropertyType)
	}
	return out
}

// cacheKey covers the upstream parameters plus the local pagination window,
// so the same page of the same logical query always lands on one entry.
func (p SearchParams) cacheKey() string {
	params := p.upstream()
	params["limit"] = strconv.Itoa(p.Limit)
	params["offset"] = strconv.Itoa(p.Offset)
	return cache.Key("search", params)
}

// Search runs a criteria search against the feed and paginates locally: the
// feed returns the full matching set, and limit/offset slice it.
func (s *Service) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	p = p.normalized()
	key := p.cacheKey()

	var out SearchResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	records, err := s.Client.Search(ctx, p.upstream())
	if err != nil {
		return out, err
	}
	all := s.normalizeAll(records)

	start := p.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	out = SearchResult{
		Properties: all[start:end],
		Total:      len(all),
		Offset:     p.Offset,
		Limit:      p.Limit,
	}
	s.cachePut(ctx, key, out, searchTTL)
	return out, nil
}

// Property looks up one listing by its provider id. idx.ErrNotFound passes
// through untouched so the handler can answer 404; not-found responses are
// never cached.
func (s *Service) Property(ctx context.Context, listingID string) (PropertyResult, error) {
	key := cache.Key("property", map[string]string{"id": listingID})

	var out PropertyResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	record, err := s.Client.Listing(ctx, listingID)
	if err != nil {
		return out, err
	}
	out = PropertyResult{Property: idx.Normalize(record, s.now())}
	s.cachePut(ctx, key, out, propertyTTL)
	return out, nil
}

func (s *Service) Photos(ctx context.Context, listingID string) (PhotosResult, error) {
	key := cache.Key("photos", map[string]string{"id": listingID})

	var out PhotosResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}
	records, err := s.Client.ListingImages(ctx, listingID)
	if err != nil {
		return out, err
	}
	out = PhotosResult{Photos: idx.NormalizePhotos(records)}
	s.cachePut(ctx, key, out, photosTTL)
	return out, nil
}

// SystemInfo passes provider account metadata through untyped and uncached.
func (s *Service) SystemInfo(ctx context.Context) (json.RawMessage, error) {
	return s.Client.SystemLinks(ctx)
}

func (s *Service) normalizeAll(records []idx.RawRecord) []idx.Listing {
	now := s.now()
	out := make([]idx.Listing, 0, len(records))
	for _, r := range records {
		out = append(out, idx.Normalize(r, now))
	}
	return out
}

func (s *Service) cacheGet(ctx context.Context, key string, dest any) bool {
	hit, err := s.Cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("[WARN] cache read %s: %v", key, err)
		return false
	}
	return hit
}

func (s *Service) cachePut(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.Cache.Put(ctx, key, value, ttl); err != nil {
		log.Printf("[WARN] cache write %s: %v", key, err)
	}
}
