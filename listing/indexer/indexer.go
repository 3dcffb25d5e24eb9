// Package indexer keeps the listing index in step with the relational store.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/data/search"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// Source is the relational read surface the indexer projects from.
type Source interface {
	FindByID(ctx context.Context, id string) (*structs.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]*structs.Listing, error)
	ListIDs(ctx context.Context, f repository.Filter, afterID string, limit int) ([]string, error)
}

// Options tunes bulk indexing.
type Options struct {
	BatchSize int
	Workers   int
}

// Report summarises a bulk run.
type Report struct {
	Indexed int `json:"indexed"`
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}

func (r *Report) add(o Report) {
	r.Indexed += o.Indexed
	r.Removed += o.Removed
	r.Failed += o.Failed
}

// Indexer writes listing projections to the index. Only eligible listings
// are kept in the index; others are removed.
type Indexer struct {
	source   Source
	searcher search.Searcher
	index    string
	logger   *logger.Logger
	pool     *ants.Pool
	batch    int
}

// New creates an indexer with a bounded worker pool.
func New(source Source, searcher search.Searcher, index string, l *logger.Logger, opts Options) (*Indexer, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 200
	}
	if l == nil {
		l = logger.Nop()
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexing pool: %w", err)
	}
	return &Indexer{source: source, searcher: searcher, index: index, logger: l, pool: pool, batch: opts.BatchSize}, nil
}

// Close releases the worker pool.
func (ix *Indexer) Close() {
	ix.pool.Release()
}

// EnsureIndex creates the listing index with its mapping when missing.
func (ix *Indexer) EnsureIndex(ctx context.Context) error {
	return ix.searcher.EnsureIndex(ctx, ix.index, []byte(Mapping))
}

// IndexListing upserts the current projection of id, or removes it when
// the listing is gone or no longer eligible.
func (ix *Indexer) IndexListing(ctx context.Context, id string) error {
	l, err := ix.source.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ix.RemoveListing(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load listing %s: %w", id, err)
	}
	if !l.Eligible() {
		return ix.RemoveListing(ctx, id)
	}
	if err := ix.searcher.Index(ctx, ix.index, l.ID, l); err != nil {
		return fmt.Errorf("failed to index listing %s: %w", id, err)
	}
	ix.logger.Debug(ctx, "listing indexed", "listing_id", id)
	return nil
}

// RemoveListing deletes id from the index. Missing documents are ignored.
func (ix *Indexer) RemoveListing(ctx context.Context, id string) error {
	if err := ix.searcher.Delete(ctx, ix.index, id); err != nil {
		return fmt.Errorf("failed to remove listing %s: %w", id, err)
	}
	ix.logger.Debug(ctx, "listing removed from index", "listing_id", id)
	return nil
}

// BulkIndexListings projects ids in batches on the worker pool.
func (ix *Indexer) BulkIndexListings(ctx context.Context, ids []string) (Report, error) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
		errs   []error
	)
	for start := 0; start < len(ids); start += ix.batch {
		end := min(start+ix.batch, len(ids))
		batch := ids[start:end]

		wg.Add(1)
		err := ix.pool.Submit(func() {
			defer wg.Done()
			r, err := ix.indexBatch(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			report.add(r)
			if err != nil {
				errs = append(errs, err)
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			report.Failed += len(batch)
			errs = append(errs, fmt.Errorf("failed to schedule batch: %w", err))
			mu.Unlock()
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		ix.logger.Warn(ctx, "bulk indexing finished with errors", "indexed", report.Indexed, "failed", report.Failed)
	}
	return report, errors.Join(errs...)
}

func (ix *Indexer) indexBatch(ctx context.Context, ids []string) (Report, error) {
	var r Report
	listings, err := ix.source.FindByIDs(ctx, ids)
	if err != nil {
		r.Failed = len(ids)
		return r, fmt.Errorf("failed to load batch: %w", err)
	}

	eligible := make(map[string]bool, len(listings))
	docs := make([]search.Document, 0, len(listings))
	for _, l := range listings {
		if l.Eligible() {
			eligible[l.ID] = true
			docs = append(docs, search.Document{ID: l.ID, Body: l})
		}
	}

	var errs []error
	if len(docs) > 0 {
		if err := ix.searcher.BulkIndex(ctx, ix.index, docs); err != nil {
			r.Failed += len(docs)
			errs = append(errs, fmt.Errorf("failed to bulk index: %w", err))
		} else {
			r.Indexed += len(docs)
		}
	}

	for _, id := range ids {
		if eligible[id] {
			continue
		}
		if err := ix.RemoveListing(ctx, id); err != nil {
			r.Failed++
			errs = append(errs, err)
			continue
		}
		r.Removed++
	}
	return r, errors.Join(errs...)
}

// ReindexAll walks every listing id and bulk indexes it.
func (ix *Indexer) ReindexAll(ctx context.Context) (Report, error) {
	var (
		total Report
		errs  []error
		after string
	)
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		ids, err := ix.source.ListIDs(ctx, repository.Filter{}, after, ix.batch*ix.pool.Cap())
		if err != nil {
			return total, fmt.Errorf("failed to list listings: %w", err)
		}
		if len(ids) == 0 {
			break
		}
		r, err := ix.BulkIndexListings(ctx, ids)
		total.add(r)
		if err != nil {
			errs = append(errs, err)
		}
		after = ids[len(ids)-1]
	}
	ix.logger.Info(ctx, "reindex complete", "indexed", total.Indexed, "removed", total.Removed, "failed", total.Failed)
	return total, errors.Join(errs...)
}
