package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samujjwal/rental-sub006/data/metrics"
	"github.com/samujjwal/rental-sub006/listing/structs"
)

// ErrNotFound is returned when a listing does not exist.
var ErrNotFound = errors.New("listing not found")

const listingColumns = `l.id, l.title, l.description, l.category_id, COALESCE(c.name, ''), COALESCE(c.slug, ''),
	l.city, l.state, l.country, l.latitude, l.longitude, l.base_price, l.currency,
	l.status, l.verification_status, l.average_rating, l.review_count, l.booking_mode,
	l.item_condition, l.owner_id, COALESCE(u.display_name, ''), u.rating, l.created_at`

const listingFrom = ` FROM listings l
	LEFT JOIN categories c ON c.id = l.category_id
	LEFT JOIN users u ON u.id = l.owner_id`

// Repository is the read side of the listing store on database/sql.
type Repository struct {
	db        *sql.DB
	dialect   Dialect
	collector metrics.Collector
}

// New creates a repository over db.
func New(db *sql.DB, dialect Dialect, collector metrics.Collector) *Repository {
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &Repository{db: db, dialect: dialect, collector: collector}
}

// Ping checks the store connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Dialect returns the SQL dialect in use.
func (r *Repository) Dialect() Dialect { return r.dialect }

func (r *Repository) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(q), args...)
	r.collector.DBQuery(time.Since(start), err)
	return rows, err
}

func (r *Repository) queryRow(ctx context.Context, q string, dest []any, args ...any) error {
	start := time.Now()
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(q), args...).Scan(dest...)
	r.collector.DBQuery(time.Since(start), err)
	return err
}

// Count returns the number of listings matching f.
func (r *Repository) Count(ctx context.Context, f Filter) (int64, error) {
	where, args := f.where()
	var n int64
	if err := r.queryRow(ctx, "SELECT COUNT(*) FROM listings l"+where, []any{&n}, args...); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}

// FindMany returns listings matching f ordered by sorts with owner, category
// and features loaded. limit <= 0 means no limit.
func (r *Repository) FindMany(ctx context.Context, f Filter, sorts []Sort, limit, offset int) ([]*structs.Listing, error) {
	where, args := f.where()
	q := "SELECT " + listingColumns + listingFrom + where + orderBy(sorts)
	if limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	defer rows.Close()

	var out []*structs.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	if err := r.loadFeatures(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns one listing regardless of eligibility.
func (r *Repository) FindByID(ctx context.Context, id string) (*structs.Listing, error) {
	ls, err := r.FindMany(ctx, Filter{IDs: []string{id}}, nil, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(ls) == 0 {
		return nil, ErrNotFound
	}
	return ls[0], nil
}

// FindByIDs returns the listings that exist among ids, ordered by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []string) ([]*structs.Listing, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.FindMany(ctx, Filter{IDs: ids}, nil, 0, 0)
}

// ListIDs pages through listing ids matching f in id order, starting after
// afterID.
func (r *Repository) ListIDs(ctx context.Context, f Filter, afterID string, limit int) ([]string, error) {
	where, args := f.where()
	if afterID != "" {
		if where == "" {
			where = " WHERE l.id > ?"
		} else {
			where += " AND l.id > ?"
		}
		args = append(args, afterID)
	}
	q := "SELECT l.id FROM listings l" + where + " ORDER BY l.id ASC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list listing ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) loadFeatures(ctx context.Context, ls []*structs.Listing) error {
	if len(ls) == 0 {
		return nil
	}
	byID := make(map[string]*structs.Listing, len(ls))
	ids := make([]any, 0, len(ls))
	for _, l := range ls {
		l.Features = []string{}
		byID[l.ID] = l
		ids = append(ids, l.ID)
	}

	rows, err := r.query(ctx, "SELECT listing_id, feature FROM listing_features WHERE listing_id IN ("+placeholders(len(ids))+") ORDER BY listing_id, feature", ids...)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, feature string
		if err := rows.Scan(&id, &feature); err != nil {
			return err
		}
		if l, ok := byID[id]; ok {
			l.Features = append(l.Features, feature)
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (*structs.Listing, error) {
	var (
		l                structs.Listing
		lat, lon, rating sql.NullFloat64
		ownerRating      sql.NullFloat64
		condition        sql.NullString
		status, verified string
	)
	err := s.Scan(
		&l.ID, &l.Title, &l.Description, &l.Category.ID, &l.Category.Name, &l.Category.Slug,
		&l.City, &l.State, &l.Country, &lat, &lon, &l.BasePrice, &l.Currency,
		&status, &verified, &rating, &l.ReviewCount, &l.BookingMode,
		&condition, &l.Owner.ID, &l.Owner.DisplayName, &ownerRating, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = structs.Status(status)
	l.VerificationStatus = structs.VerificationStatus(verified)
	if lat.Valid && lon.Valid {
		l.Location = &structs.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
	}
	if rating.Valid {
		l.AverageRating = &rating.Float64
	}
	if ownerRating.Valid {
		l.Owner.Rating = &ownerRating.Float64
	}
	if condition.Valid && condition.String != "" {
		l.Condition = &condition.String
	}
	return &l, nil
}
