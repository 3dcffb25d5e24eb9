package repository

import (
	"context"
	"fmt"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// FindTitles returns distinct titles of eligible listings starting with
// prefix, most reviewed first.
func (r *Repository) FindTitles(ctx context.Context, prefix string, limit int) ([]string, error) {
	where, args := Filter{EligibleOnly: true, TitlePrefix: prefix}.where()
	q := "SELECT l.title FROM listings l" + where + " GROUP BY l.title ORDER BY MAX(l.review_count) DESC, l.title ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find titles: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// SearchCategories returns categories whose name contains text with their
// eligible listing counts.
func (r *Repository) SearchCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error) {
	q := `SELECT c.id, c.name, c.slug, COUNT(l.id) FROM categories c
		LEFT JOIN listings l ON l.category_id = c.id AND l.status = ? AND l.verification_status = ?
		WHERE LOWER(c.name) LIKE ? ESCAPE '!'
		GROUP BY c.id, c.name, c.slug
		ORDER BY COUNT(l.id) DESC, c.name ASC LIMIT ?`
	rows, err := r.query(ctx, q,
		string(structs.StatusAvailable), string(structs.VerificationVerified), containsPattern(text), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search categories: %w", err)
	}
	defer rows.Close()

	out := []structs.CategorySuggestion{}
	for rows.Next() {
		var c structs.CategorySuggestion
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SearchLocations returns places of eligible listings whose city or state
// contains text, busiest first.
func (r *Repository) SearchLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error) {
	where, args := Filter{EligibleOnly: true}.where()
	p := containsPattern(text)
	q := "SELECT l.city, l.state, l.country FROM listings l" + where +
		" AND (LOWER(l.city) LIKE ? ESCAPE '!' OR LOWER(l.state) LIKE ? ESCAPE '!')" +
		" GROUP BY l.city, l.state, l.country ORDER BY COUNT(*) DESC, l.city ASC LIMIT ?"
	args = append(args, p, p, limit)

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	defer rows.Close()

	out := []structs.LocationSuggestion{}
	for rows.Next() {
		var s structs.LocationSuggestion
		if err := rows.Scan(&s.City, &s.State, &s.Country); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
