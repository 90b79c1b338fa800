package idx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.idxbroker.com/clients"

// apiVersion is pinned; the feed changes field names between versions.
const apiVersion = "1.4.6"

var (
	// ErrNoAPIKey means the client was built without a feed credential.
	// This is a configuration failure, never retried.
	ErrNoAPIKey = errors.New("IDX API key not configured")

	// ErrNotFound is returned when a single-listing lookup comes back empty.
	ErrNotFound = errors.New("listing not found")
)

// StatusError carries a non-2xx upstream response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("IDX API error: %d %s", e.Code, e.Status)
}

// Client issues authenticated requests against the IDX feed. It retries
// transport-level failures and paces calls to protect the provider quota;
// it never retries non-2xx responses on its own.
type Client struct {
	key     string
	baseURL string
	limiter *rate.Limiter
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL points the client at a different gateway; used by
// tests to substitute a stub feed.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 10 * time.Second

	return &Client{
		key:     apiKey,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		http:    rc,
	}
}

func (c *Client) Configured() bool { return c != nil && c.key != "" }

// Fetch performs one authenticated GET against a logical feed endpoint and
// returns the raw JSON body. Parameters with an empty value are omitted
// from the URL rather than sent blank.
func (c *Client) Fetch(ctx context.Context, endpoint string, params map[string]string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + "/" + endpoint
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("accesskey", c.key)
	req.Header.Set("outputtype", "json")
	req.Header.Set("apiversion", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	body, err := readAllLimit(resp.Body, 4<<20)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Featured returns the account's featured listings result set.
func (c *Client) Featured(ctx context.Context) ([]RawRecord, error) {
	return c.fetchRecords(ctx, "featured", nil)
}

// Listings returns the full active inventory.
func (c *Client) Listings(ctx context.Context) ([]RawRecord, error) {
	return c.fetchRecords(ctx, "listings", nil)
}

// SoldPending returns recently sold and pending listings.
func (c *Client) SoldPending(ctx context.Context) ([]RawRecord, error) {
	return c.fetchRecords(ctx, "soldpending", nil)
}

// Search runs a criteria search. Params use the feed's own field names
// (minListPrice, bedrooms, ...); empty values are dropped.
func (c *Client) Search(ctx context.Context, params map[string]string) ([]RawRecord, error) {
	return c.fetchRecords(ctx, "search", params)
}

// Listing fetches one listing by its provider id. An empty payload maps to
// ErrNotFound so callers can answer 404 instead of 500.
func (c *Client) Listing(ctx context.Context, listingID string) (RawRecord, error) {
	raw, err := c.Fetch(ctx, "listing/"+listingID, nil)
	if err != nil {
		return nil, err
	}
	var records []RawRecord
	if err := json.Unmarshal(raw, &records); err == nil {
		if len(records) == 0 {
			return nil, ErrNotFound
		}
		return records[0], nil
	}
	var record RawRecord
	if err := json.Unmarshal(raw, &record); err == nil && len(record) > 0 {
		return record, nil
	}
	return nil, ErrNotFound
}

// ListingImages fetches the photo set for one listing.
func (c *Client) ListingImages(ctx context.Context, listingID string) ([]RawRecord, error) {
	return c.fetchRecords(ctx, "listing/"+listingID+"/images", nil)
}

// SystemLinks returns provider account metadata, passed through untyped.
func (c *Client) SystemLinks(ctx context.Context) (json.RawMessage, error) {
	return c.Fetch(ctx, "systemlinks", nil)
}

// fetchRecords decodes a result-set endpoint. The feed answers some calls
// with an object instead of an array (error envelopes, empty accounts);
// those carry no listings.
func (c *Client) fetchRecords(ctx context.Context, endpoint string, params map[string]string) ([]RawRecord, error) {
	raw, err := c.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var records []RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, nil
	}
	return records, nil
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
