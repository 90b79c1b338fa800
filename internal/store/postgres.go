package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/yourorg/realty-api/idx"
)

// Postgres is the system of record for synced listings. Only rows here are
// authoritative for the site's own listing endpoints; feed responses that
// were never synced stay transient.
type Postgres struct {
	DB *sql.DB
}

func Open(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Postgres{DB: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.DB.PingContext(ctx) }

func (p *Postgres) Close() error { return p.DB.Close() }

func (p *Postgres) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS agents (
            id         TEXT PRIMARY KEY,
            name       TEXT NOT NULL,
            photo      TEXT NOT NULL DEFAULT '',
            phone      TEXT NOT NULL DEFAULT '',
            email      TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE TABLE IF NOT EXISTS properties (
            id            TEXT PRIMARY KEY,
            mls_number    TEXT NOT NULL,
            title         TEXT NOT NULL DEFAULT '',
            price         BIGINT NOT NULL DEFAULT 0,
            address       TEXT NOT NULL DEFAULT '',
            city          TEXT NOT NULL DEFAULT '',
            state         TEXT NOT NULL DEFAULT '',
            zip           TEXT NOT NULL DEFAULT '',
            beds          INTEGER NOT NULL DEFAULT 0,
            baths         DOUBLE PRECISION NOT NULL DEFAULT 0,
            sqft          INTEGER NOT NULL DEFAULT 0,
            description   TEXT NOT NULL DEFAULT '',
            property_type TEXT NOT NULL DEFAULT 'single-family',
            year_built    INTEGER NOT NULL DEFAULT 0,
            features      TEXT NOT NULL DEFAULT '[]',
            images        TEXT NOT NULL DEFAULT '[]',
            is_featured   SMALLINT NOT NULL DEFAULT 0,
            is_new        SMALLINT NOT NULL DEFAULT 0,
            status        TEXT NOT NULL DEFAULT 'for-sale',
            listing_date  TEXT NOT NULL DEFAULT '',
            latitude      DOUBLE PRECISION NOT NULL DEFAULT 0,
            longitude     DOUBLE PRECISION NOT NULL DEFAULT 0,
            agent_id      TEXT REFERENCES agents(id),
            created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_properties_mls_number ON properties(mls_number);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(city);`,
		`CREATE INDEX IF NOT EXISTS idx_properties_featured ON properties(is_featured);`,
		`CREATE TABLE IF NOT EXISTS user_favorites (
            id          SERIAL PRIMARY KEY,
            user_id     TEXT NOT NULL,
            property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_favorites_user_property ON user_favorites(user_id, property_id);`,
	}
	for _, q := range stmts {
		if _, err := p.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	// Synced rows always attach to the default agent.
	_, err := p.DB.ExecContext(ctx, `
        INSERT INTO agents (id, name, photo, phone, email)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO NOTHING`,
		idx.DefaultAgent.ID, idx.DefaultAgent.Name, idx.DefaultAgent.Photo,
		idx.DefaultAgent.Phone, idx.DefaultAgent.Email,
	)
	return err
}

// ExistsByMLSNumber reports whether a listing has already been synced.
func (p *Postgres) ExistsByMLSNumber(ctx context.Context, mlsNumber string) (bool, error) {
	var id string
	err := p.DB.QueryRowContext(ctx,
		`SELECT id FROM properties WHERE mls_number = $1`, mlsNumber).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertListing writes a new row with all canonical fields, stamping both
// timestamps at insert time.
func (p *Postgres) InsertListing(ctx context.Context, l idx.Listing) error {
	_, err := p.DB.ExecContext(ctx, `
        INSERT INTO properties (
            id, mls_number, title, price, address, city, state, zip,
            beds, baths, sqft, description, property_type, year_built,
            features, images, is_featured, is_new, status, listing_date,
            latitude, longitude, agent_id, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8,
            $9, $10, $11, $12, $13, $14,
            $15, $16, $17, $18, $19, $20,
            $21, $22, $23, now(), now()
        )`,
		l.ID, l.MLSNumber, l.Title, l.Price, l.Address, l.City, l.State, l.Zip,
		l.Beds, l.Baths, l.Sqft, l.Description, l.PropertyType, l.YearBuilt,
		encodeStringList(l.Features), encodeStringList(l.Images),
		boolToInt(l.IsFeatured), boolToInt(l.IsNew), l.Status, l.ListingDate,
		l.Latitude, l.Longitude, idx.DefaultAgent.ID,
	)
	if err != nil {
		return fmt.Errorf("insert listing %s: %w", l.MLSNumber, err)
	}
	return nil
}

// UpdateListing refreshes the mutable fields of an existing row. Identity
// fields, the creation timestamp, the featured flag and the listing date
// are never overwritten.
func (p *Postgres) UpdateListing(ctx context.Context, l idx.Listing) error {
	_, err := p.DB.ExecContext(ctx, `
        UPDATE properties SET
            title = $1, price = $2, address = $3, city = $4, state = $5,
            zip = $6, beds = $7, baths = $8, sqft = $9, description = $10,
            property_type = $11, year_built = $12, features = $13,
            images = $14, status = $15, updated_at = now()
        WHERE mls_number = $16`,
		l.Title, l.Price, l.Address, l.City, l.State,
		l.Zip, l.Beds, l.Baths, l.Sqft, l.Description,
		l.PropertyType, l.YearBuilt, encodeStringList(l.Features),
		encodeStringList(l.Images), l.Status, l.MLSNumber,
	)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", l.MLSNumber, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
