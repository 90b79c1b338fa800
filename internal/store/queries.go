package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/yourorg/realty-api/idx"
)

// SearchFilter narrows the local properties listing. Zero values mean the
// filter is not applied.
type SearchFilter struct {
	Query        string
	MinPrice     int
	MaxPrice     int
	Beds         int
	Baths        float64
	PropertyType string
	City         string
	State        string
	Limit        int
	Offset       int
}

const listingColumns = `
    p.id, p.mls_number, p.title, p.price, p.address, p.city, p.state, p.zip,
    p.beds, p.baths, p.sqft, p.description, p.property_type, p.year_built,
    p.features, p.images, p.is_featured, p.is_new, p.status, p.listing_date,
    p.latitude, p.longitude,
    a.id, a.name, a.photo, a.phone, a.email`

const listingFrom = `
    FROM properties p
    LEFT JOIN agents a ON p.agent_id = a.id`

// SearchProperties returns synced listings matching the filter, newest
// first.
func (p *Postgres) SearchProperties(ctx context.Context, f SearchFilter) ([]idx.Listing, error) {
	sqlText := `SELECT ` + listingColumns + listingFrom + ` WHERE 1=1`
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Query != "" {
		ph := arg("%" + f.Query + "%")
		sqlText += fmt.Sprintf(
			` AND (p.title ILIKE %[1]s OR p.description ILIKE %[1]s OR p.address ILIKE %[1]s OR p.city ILIKE %[1]s)`, ph)
	}
	if f.MinPrice > 0 {
		sqlText += ` AND p.price >= ` + arg(f.MinPrice)
	}
	if f.MaxPrice > 0 {
		sqlText += ` AND p.price <= ` + arg(f.MaxPrice)
	}
	if f.Beds > 0 {
		sqlText += ` AND p.beds >= ` + arg(f.Beds)
	}
	if f.Baths > 0 {
		sqlText += ` AND p.baths >= ` + arg(f.Baths)
	}
	if f.PropertyType != "" {
		sqlText += ` AND p.property_type = ` + arg(f.PropertyType)
	}
	if f.City != "" {
		sqlText += ` AND p.city = ` + arg(f.City)
	}
	if f.State != "" {
		sqlText += ` AND p.state = ` + arg(f.State)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	sqlText += ` ORDER BY p.created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(offset)

	return p.queryListings(ctx, sqlText, args...)
}

// GetProperty fetches one synced listing by its id. Returns (nil, nil) when
// no row exists.
func (p *Postgres) GetProperty(ctx context.Context, id string) (*idx.Listing, error) {
	rows, err := p.queryListings(ctx,
		`SELECT `+listingColumns+listingFrom+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// FeaturedProperties returns the newest listings carrying the store's own
// featured flag.
func (p *Postgres) FeaturedProperties(ctx context.Context, limit int) ([]idx.Listing, error) {
	if limit <= 0 {
		limit = 6
	}
	return p.queryListings(ctx,
		`SELECT `+listingColumns+listingFrom+`
         WHERE p.is_featured = 1
         ORDER BY p.created_at DESC LIMIT $1`, limit)
}

// ToggleFavorite flips a user's favorite mark on a property and reports the
// resulting state.
func (p *Postgres) ToggleFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	var favID int
	err := p.DB.QueryRowContext(ctx,
		`SELECT id FROM user_favorites WHERE user_id = $1 AND property_id = $2`,
		userID, propertyID).Scan(&favID)
	switch {
	case err == nil:
		_, err = p.DB.ExecContext(ctx,
			`DELETE FROM user_favorites WHERE user_id = $1 AND property_id = $2`,
			userID, propertyID)
		return false, err
	case errors.Is(err, sql.ErrNoRows):
		_, err = p.DB.ExecContext(ctx,
			`INSERT INTO user_favorites (user_id, property_id) VALUES ($1, $2)`,
			userID, propertyID)
		return true, err
	default:
		return false, err
	}
}

// FavoritesByUser returns a user's favorited listings, most recently
// favorited first.
func (p *Postgres) FavoritesByUser(ctx context.Context, userID string) ([]idx.Listing, error) {
	return p.queryListings(ctx,
		`SELECT `+listingColumns+listingFrom+`
         INNER JOIN user_favorites uf ON p.id = uf.property_id
         WHERE uf.user_id = $1
         ORDER BY uf.created_at DESC`, userID)
}

func (p *Postgres) queryListings(ctx context.Context, query string, args ...any) ([]idx.Listing, error) {
	rows, err := p.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []idx.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
