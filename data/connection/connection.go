package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	dc "github.com/samujjwal/rental-sub006/data/config"
	esclient "github.com/samujjwal/rental-sub006/data/elasticsearch/client"
	osclient "github.com/samujjwal/rental-sub006/data/opensearch/client"
)

// Connections holds every data store client the service was configured with.
// A nil field means the store is not configured.
type Connections struct {
	DB      *sql.DB
	Dialect string
	RC      *redis.Client
	ES      *esclient.Client
	OS      *osclient.Client
	RMQ     *amqp.Connection

	closed bool
	mu     sync.Mutex
}

// New connects to every store configured in conf.
func New(ctx context.Context, conf *dc.Config) (*Connections, error) {
	c := &Connections{}
	var err error

	if conf.Database != nil && conf.Database.Source != "" {
		c.DB, c.Dialect, err = OpenDB(ctx, conf.Database)
		if err != nil {
			return nil, err
		}
	}

	if conf.Redis != nil && conf.Redis.Addr != "" {
		c.RC, err = newRedisClient(ctx, conf.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	if conf.Elasticsearch != nil && len(conf.Elasticsearch.Addresses) > 0 {
		c.ES, err = esclient.NewClient(conf.Elasticsearch.Addresses, conf.Elasticsearch.Username, conf.Elasticsearch.Password)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	if conf.OpenSearch != nil && len(conf.OpenSearch.Addresses) > 0 {
		o := conf.OpenSearch
		c.OS, err = osclient.NewClient(o.Addresses, o.Username, o.Password, o.InsecureSkipTLS)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	if conf.RabbitMQ != nil && conf.RabbitMQ.URL != "" {
		c.RMQ, err = newRabbitMQConnection(conf.RabbitMQ)
		if err != nil {
			c.Close()
			return nil, err
		}
	}

	return c, nil
}

// Ping checks the relational store and Redis.
func (c *Connections) Ping(ctx context.Context) map[string]error {
	out := make(map[string]error)
	if c.DB != nil {
		out["database"] = c.DB.PingContext(ctx)
	}
	if c.RC != nil {
		out["redis"] = c.RC.Ping(ctx).Err()
	}
	if c.RMQ != nil {
		if c.RMQ.IsClosed() {
			out["rabbitmq"] = errors.New("connection closed")
		} else {
			out["rabbitmq"] = nil
		}
	}
	return out
}

// Close closes all data connections
func (c *Connections) Close() (errs []error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.RC != nil {
		if err := c.RC.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close error: %w", err))
		}
	}
	if c.RMQ != nil && !c.RMQ.IsClosed() {
		if err := c.RMQ.Close(); err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq close error: %w", err))
		}
	}
	return errs
}
