package backend

import (
	"context"
	"errors"
	"time"

	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/listing/structs"
	"github.com/sony/gobreaker"
)

// Guarded bounds every call of a backend with a timeout and a circuit
// breaker. Failures surface as BackendUnavailable; NotFound and
// InvalidQuery pass through and do not trip the breaker.
type Guarded struct {
	next    SearchBackend
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewGuarded wraps next. A nil conf uses the default breaker settings.
func NewGuarded(next SearchBackend, conf *config.Breaker, timeout time.Duration) *Guarded {
	if conf == nil {
		conf = &config.Breaker{MaxRequests: 100, Interval: 5 * time.Second, Timeout: 3 * time.Second, FailureRatio: 0.6, MinRequests: 3}
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Kind(),
		MaxRequests: conf.MaxRequests,
		Interval:    conf.Interval,
		Timeout:     conf.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= conf.MinRequests && failureRatio >= conf.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || ecode.IsNotFound(err) || ecode.IsInvalid(err) || errors.Is(err, context.Canceled)
		},
	})
	return &Guarded{next: next, cb: cb, timeout: timeout}
}

// State returns the breaker state.
func (g *Guarded) State() gobreaker.State { return g.cb.State() }

func guard[T any](ctx context.Context, g *Guarded, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	out, err := g.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, classify(op, err)
	}
	return out.(T), nil
}

func classify(op string, err error) error {
	switch {
	case ecode.IsNotFound(err), ecode.IsInvalid(err), ecode.IsUnavailable(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return ecode.Unavailable(op, errors.New("timed out"))
	default:
		return ecode.Unavailable(op, err)
	}
}

func (g *Guarded) Kind() string { return g.next.Kind() }

func (g *Guarded) Search(ctx context.Context, q *structs.SearchQuery) (*Response, error) {
	return guard(ctx, g, "search", func(ctx context.Context) (*Response, error) {
		return g.next.Search(ctx, q)
	})
}

func (g *Guarded) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	return guard(ctx, g, "autocomplete", func(ctx context.Context) ([]string, error) {
		return g.next.Autocomplete(ctx, prefix, limit)
	})
}

func (g *Guarded) SuggestListings(ctx context.Context, text string, limit int) ([]structs.ListingSuggestion, error) {
	return guard(ctx, g, "listing suggestions", func(ctx context.Context) ([]structs.ListingSuggestion, error) {
		return g.next.SuggestListings(ctx, text, limit)
	})
}

func (g *Guarded) SuggestCategories(ctx context.Context, text string, limit int) ([]structs.CategorySuggestion, error) {
	return guard(ctx, g, "category suggestions", func(ctx context.Context) ([]structs.CategorySuggestion, error) {
		return g.next.SuggestCategories(ctx, text, limit)
	})
}

func (g *Guarded) SuggestLocations(ctx context.Context, text string, limit int) ([]structs.LocationSuggestion, error) {
	return guard(ctx, g, "location suggestions", func(ctx context.Context) ([]structs.LocationSuggestion, error) {
		return g.next.SuggestLocations(ctx, text, limit)
	})
}

func (g *Guarded) Similar(ctx context.Context, id string, limit int) ([]structs.Hit, error) {
	return guard(ctx, g, "similar listings", func(ctx context.Context) ([]structs.Hit, error) {
		return g.next.Similar(ctx, id, limit)
	})
}

func (g *Guarded) Health(ctx context.Context) error {
	_, err := guard(ctx, g, "health", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.next.Health(ctx)
	})
	return err
}
