package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// Save replaces the read model rows of l, creating its category and owner
// when they do not exist yet.
func (r *Repository) Save(ctx context.Context, l *structs.Listing) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	exec := func(q string, args ...any) error {
		_, err := tx.ExecContext(ctx, r.dialect.rebind(q), args...)
		return err
	}

	if err = exec(r.dialect.insertIgnore("categories", "id, name, slug", 3),
		l.Category.ID, l.Category.Name, l.Category.Slug); err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	if err = exec(r.dialect.insertIgnore("users", "id, display_name, rating", 3),
		l.Owner.ID, l.Owner.DisplayName, nullFloat(l.Owner.Rating)); err != nil {
		return fmt.Errorf("failed to save owner: %w", err)
	}

	if err = exec("DELETE FROM listing_features WHERE listing_id = ?", l.ID); err != nil {
		return fmt.Errorf("failed to clear features: %w", err)
	}
	if err = exec("DELETE FROM listings WHERE id = ?", l.ID); err != nil {
		return fmt.Errorf("failed to clear listing: %w", err)
	}

	var lat, lon sql.NullFloat64
	if l.Location != nil {
		lat = sql.NullFloat64{Float64: l.Location.Lat, Valid: true}
		lon = sql.NullFloat64{Float64: l.Location.Lon, Valid: true}
	}
	var condition sql.NullString
	if l.Condition != nil {
		condition = sql.NullString{String: *l.Condition, Valid: true}
	}

	if err = exec(`INSERT INTO listings (id, title, description, category_id, owner_id, city, state, country,
		latitude, longitude, base_price, currency, status, verification_status, average_rating, review_count,
		booking_mode, item_condition, created_at) VALUES (`+placeholders(19)+`)`,
		l.ID, l.Title, l.Description, l.Category.ID, l.Owner.ID, l.City, l.State, l.Country,
		lat, lon, l.BasePrice, l.Currency, string(l.Status), string(l.VerificationStatus), nullFloat(l.AverageRating), l.ReviewCount,
		l.BookingMode, condition, l.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save listing: %w", err)
	}

	seen := make(map[string]struct{}, len(l.Features))
	for _, f := range l.Features {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		if err = exec("INSERT INTO listing_features (listing_id, feature) VALUES (?, ?)", l.ID, f); err != nil {
			return fmt.Errorf("failed to save feature: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit listing: %w", err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
