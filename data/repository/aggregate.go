package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samujjwal/rental-sub006/listing/structs"
)

// GroupField is a facet column.
type GroupField string

const (
	GroupByCategory  GroupField = "category"
	GroupByCity      GroupField = "city"
	GroupByCondition GroupField = "condition"
)

// GroupBy counts listings matching f per value of field, ordered by key
// ascending. Null and empty conditions are excluded. limit <= 0 means no
// limit.
func (r *Repository) GroupBy(ctx context.Context, field GroupField, f Filter, limit int) ([]structs.Bucket, error) {
	where, args := f.where()

	var q string
	switch field {
	case GroupByCategory:
		q = "SELECT l.category_id, COALESCE(MAX(c.name), ''), COUNT(*) FROM listings l LEFT JOIN categories c ON c.id = l.category_id" +
			where + " GROUP BY l.category_id ORDER BY l.category_id ASC"
	case GroupByCity:
		q = "SELECT l.city, '', COUNT(*) FROM listings l" + where + " GROUP BY l.city ORDER BY l.city ASC"
	case GroupByCondition:
		cond := "l.item_condition IS NOT NULL AND l.item_condition <> ''"
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		q = "SELECT l.item_condition, '', COUNT(*) FROM listings l" + where + " GROUP BY l.item_condition ORDER BY l.item_condition ASC"
	default:
		return nil, fmt.Errorf("unsupported group field %q", field)
	}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to group listings by %s: %w", field, err)
	}
	defer rows.Close()

	buckets := []structs.Bucket{}
	for rows.Next() {
		var b structs.Bucket
		if err := rows.Scan(&b.Key, &b.Label, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// Aggregate returns price statistics over listings matching f. All values
// are zero for an empty set.
func (r *Repository) Aggregate(ctx context.Context, f Filter) (structs.PriceStats, error) {
	where, args := f.where()
	var (
		stats       structs.PriceStats
		mn, mx, avg sql.NullFloat64
	)
	err := r.queryRow(ctx,
		"SELECT COUNT(*), MIN(l.base_price), MAX(l.base_price), AVG(l.base_price) FROM listings l"+where,
		[]any{&stats.Count, &mn, &mx, &avg}, args...)
	if err != nil {
		return structs.PriceStats{}, fmt.Errorf("failed to aggregate prices: %w", err)
	}
	stats.Min, stats.Max, stats.Avg = mn.Float64, mx.Float64, avg.Float64
	return stats, nil
}
