package repository

import (
	"context"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		display_name VARCHAR(255) NOT NULL,
		rating DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		category_id VARCHAR(64) NOT NULL,
		owner_id VARCHAR(64) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(100) NOT NULL,
		country VARCHAR(100) NOT NULL,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		base_price DOUBLE PRECISION NOT NULL,
		currency VARCHAR(8) NOT NULL,
		status VARCHAR(32) NOT NULL,
		verification_status VARCHAR(32) NOT NULL,
		average_rating DOUBLE PRECISION,
		review_count INTEGER NOT NULL DEFAULT 0,
		booking_mode VARCHAR(32) NOT NULL,
		item_condition VARCHAR(32),
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS listing_features (
		listing_id VARCHAR(64) NOT NULL,
		feature VARCHAR(100) NOT NULL,
		PRIMARY KEY (listing_id, feature)
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_listings_eligible ON listings (status, verification_status)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_category ON listings (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_listings_location ON listings (latitude, longitude)`,
	`CREATE INDEX IF NOT EXISTS idx_listing_features_feature ON listing_features (feature)`,
}

// Migrate creates the read model tables when they do not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range tables {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	// MySQL has no CREATE INDEX IF NOT EXISTS.
	if r.dialect == MySQL {
		return nil
	}
	for _, stmt := range indexes {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
