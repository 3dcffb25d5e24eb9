package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/data/cache"
	"github.com/samujjwal/rental-sub006/data/connection"
	"github.com/samujjwal/rental-sub006/data/elasticsearch"
	"github.com/samujjwal/rental-sub006/data/metrics"
	"github.com/samujjwal/rental-sub006/data/opensearch"
	"github.com/samujjwal/rental-sub006/data/repository"
	"github.com/samujjwal/rental-sub006/data/search"
	"github.com/samujjwal/rental-sub006/listing/backend"
	"github.com/samujjwal/rental-sub006/listing/event"
	"github.com/samujjwal/rental-sub006/listing/indexer"
	"github.com/samujjwal/rental-sub006/listing/service"
	"github.com/samujjwal/rental-sub006/listing/similarity"
	"github.com/samujjwal/rental-sub006/logging/logger"
)

// Components is the assembled object graph. Optional parts are nil when
// their store is not configured.
type Components struct {
	Conns      *connection.Connections
	Collector  *metrics.DataCollector
	Repository *repository.Repository
	Searcher   *search.Client
	Backend    *backend.Guarded
	Service    *service.Service
	Indexer    *indexer.Indexer
	Scheduler  *indexer.Scheduler
	Subscriber event.Subscriber
	Dispatcher *event.Dispatcher
}

// Build connects the configured stores and wires the discovery components.
func Build(ctx context.Context, cfg *config.Config, l *logger.Logger) (*Components, error) {
	collector := metrics.NewDataCollector()
	conns, err := connection.New(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to connect data stores: %w", err)
	}

	c := &Components{Conns: conns, Collector: collector}
	if err := c.wire(ctx, cfg, l); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Components) wire(ctx context.Context, cfg *config.Config, l *logger.Logger) error {
	sc := cfg.Search

	if c.Conns.DB != nil {
		c.Repository = repository.New(c.Conns.DB, repository.ParseDialect(c.Conns.Dialect), c.Collector)
		if db := cfg.Data.Database; db != nil && db.Migrate {
			if err := c.Repository.Migrate(ctx); err != nil {
				return err
			}
		}
	}
	if c.Conns.ES != nil || c.Conns.OS != nil {
		var adapters []search.Adapter
		if c.Conns.ES != nil {
			adapters = append(adapters, elasticsearch.NewAdapter(c.Conns.ES))
		}
		if c.Conns.OS != nil {
			adapters = append(adapters, opensearch.NewAdapter(c.Conns.OS))
		}
		c.Searcher = search.NewClient(c.Collector, cfg.AppName, search.Engine(sc.Engine), adapters...)
	}

	opts := backendOptions(sc)
	var b backend.SearchBackend
	switch sc.Backend {
	case config.BackendIndex:
		if c.Searcher == nil {
			return errors.New("index backend requires elasticsearch or opensearch")
		}
		b = backend.NewIndex(c.Searcher, sc.Index, opts)
	case config.BackendRelational:
		if c.Repository == nil {
			return errors.New("relational backend requires a database")
		}
		b = backend.NewRelational(c.Repository, opts)
	default:
		return fmt.Errorf("unknown search backend %q", sc.Backend)
	}
	c.Backend = backend.NewGuarded(b, sc.Breaker, sc.Timeout)

	store, err := c.cacheStore(sc.Cache)
	if err != nil {
		return err
	}
	c.Service = service.New(c.Backend, store, l, c.Collector, service.OptionsFromConfig(sc))

	if c.Repository == nil || c.Searcher == nil {
		return nil
	}
	c.Indexer, err = indexer.New(c.Repository, c.Searcher, sc.Index, l, indexer.Options{
		BatchSize: sc.Indexer.BatchSize,
		Workers:   sc.Indexer.Workers,
	})
	if err != nil {
		return err
	}
	if sc.Indexer.ReindexCron != "" {
		c.Scheduler = indexer.NewScheduler(c.Indexer, sc.Indexer.ReindexCron)
	}

	c.Dispatcher = event.NewDispatcher(c.Indexer, l, c.Collector, sc.Timeout*3)
	switch strings.ToLower(sc.Events.Driver) {
	case "":
	case "kafka":
		sub, err := event.NewKafkaSubscriber(cfg.Data.Kafka, l)
		if err != nil {
			return err
		}
		c.Subscriber = sub
	case "rabbitmq":
		sub, err := event.NewRabbitSubscriber(c.Conns.RMQ, cfg.Data.RabbitMQ, l)
		if err != nil {
			return err
		}
		c.Subscriber = sub
	default:
		return fmt.Errorf("unknown events driver %q", sc.Events.Driver)
	}
	return nil
}

func (c *Components) cacheStore(cc *config.Cache) (cache.Store, error) {
	switch {
	case cc == nil || cc.Driver == "none":
		return nil, nil
	case cc.Driver == "redis" && c.Conns.RC != nil:
		return cache.NewRedisStore(c.Conns.RC, c.Collector), nil
	default:
		return cache.NewMemoryStore(cc.Size)
	}
}

func backendOptions(sc *config.Search) backend.Options {
	opts := backend.Options{
		CandidateBatch:    sc.CandidateBatch,
		HistogramInterval: sc.HistogramInterval,
		Similarity:        similarity.DefaultOptions(),
	}
	if s := sc.Similarity; s != nil {
		opts.Similarity = similarity.Options{
			Ordering:       similarity.Ordering(s.Ordering),
			FeatureCap:     s.FeatureCap,
			PriceTolerance: s.PriceTolerance,
			GeoRadiusKm:    s.GeoRadiusKm,
		}
	}
	return opts
}

// Close releases every component in reverse order of construction.
func (c *Components) Close() []error {
	var errs []error
	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.Subscriber != nil {
		if err := c.Subscriber.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Indexer != nil {
		c.Indexer.Close()
	}
	if c.Conns != nil {
		errs = append(errs, c.Conns.Close()...)
	}
	return errs
}
