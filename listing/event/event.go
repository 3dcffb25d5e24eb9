// Package event consumes listing mutation events and keeps the index in
// step with them.
package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samujjwal/rental-sub006/ctxutil"
	"github.com/samujjwal/rental-sub006/data/metrics"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// Type of a listing mutation.
type Type string

const (
	ListingCreated Type = "listing.created"
	ListingUpdated Type = "listing.updated"
	ListingDeleted Type = "listing.deleted"
)

// ErrMalformed marks events that can never be processed.
var ErrMalformed = errors.New("malformed listing event")

// Event is a listing mutation notification.
type Event struct {
	Type      Type   `json:"type"`
	ListingID string `json:"listing_id"`
	TraceID   string `json:"trace_id,omitempty"`
}

// Decode parses and checks an event body.
func Decode(body []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.ListingID == "" {
		return nil, fmt.Errorf("%w: listing_id is empty", ErrMalformed)
	}
	switch e.Type {
	case ListingCreated, ListingUpdated, ListingDeleted:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformed, e.Type)
	}
	return &e, nil
}

// Indexer is the write path events are applied to.
type Indexer interface {
	IndexListing(ctx context.Context, id string) error
	RemoveListing(ctx context.Context, id string) error
}

// Dispatcher applies decoded events to the indexer.
type Dispatcher struct {
	indexer   Indexer
	logger    *logger.Logger
	collector metrics.Collector
	timeout   time.Duration
}

// NewDispatcher creates a dispatcher bounding each event by timeout.
func NewDispatcher(ix Indexer, l *logger.Logger, collector metrics.Collector, timeout time.Duration) *Dispatcher {
	if l == nil {
		l = logger.Nop()
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{indexer: ix, logger: l, collector: collector, timeout: timeout}
}

// Handle decodes body and applies it. Created and updated listings are
// reindexed, deleted listings are removed.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (err error) {
	defer func() { d.collector.MQConsume("listing-events", err) }()

	e, err := Decode(body)
	if err != nil {
		d.logger.Warn(ctx, "dropping listing event", "error", err)
		return err
	}

	if e.TraceID != "" {
		ctx = ctxutil.SetTraceID(ctx, e.TraceID)
	}
	ctx, _ = ctxutil.EnsureTraceID(ctx)
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	switch e.Type {
	case ListingDeleted:
		err = d.indexer.RemoveListing(ctx, e.ListingID)
	default:
		err = d.indexer.IndexListing(ctx, e.ListingID)
	}
	if err != nil {
		d.logger.Error(ctx, "failed to apply listing event", "type", e.Type, "listing_id", e.ListingID, "error", err)
		return err
	}
	d.logger.Debug(ctx, "listing event applied", "type", e.Type, "listing_id", e.ListingID)
	return nil
}

// Subscriber delivers event bodies to a handler until ctx is done.
type Subscriber interface {
	Run(ctx context.Context, handle func(context.Context, []byte) error) error
	Close() error
}
