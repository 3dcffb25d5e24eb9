package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samujjwal/rental-sub006/data/metrics"
)

var (
	ErrNoEngineAvailable = errors.New("no search engine available")
	ErrEngineNotFound    = errors.New("search engine not found")
	// ErrNotFound is returned by Get when the document does not exist.
	ErrNotFound = errors.New("document not found")
)

type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
)

// Response is an engine neutral search response.
type Response struct {
	Total        int64                      `json:"total"`
	Hits         []Hit                      `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations,omitempty"`
	Duration     time.Duration              `json:"duration"`
	Engine       Engine                     `json:"engine"`
}

type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
	Sort   []any           `json:"sort,omitempty"`
}

// Document is one entry of a bulk request.
type Document struct {
	ID   string
	Body any
}

// Adapter interface for search engine implementations. Index names passed to
// an adapter are already prefixed.
type Adapter interface {
	Type() Engine
	Search(ctx context.Context, index string, body []byte) (*Response, error)
	Get(ctx context.Context, index, id string) (json.RawMessage, error)
	Index(ctx context.Context, index, id string, document any) error
	Delete(ctx context.Context, index, id string) error
	BulkIndex(ctx context.Context, index string, documents []Document) error
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string, body []byte) error
	Health(ctx context.Context) error
}

// Searcher is the index surface consumed by the listing packages.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) (*Response, error)
	Get(ctx context.Context, index, id string) (json.RawMessage, error)
	Index(ctx context.Context, index, id string, document any) error
	Delete(ctx context.Context, index, id string) error
	BulkIndex(ctx context.Context, index string, documents []Document) error
	EnsureIndex(ctx context.Context, index string, body []byte) error
	Health(ctx context.Context) error
}

// Client dispatches to the selected adapter.
type Client struct {
	adapters    map[Engine]Adapter
	collector   metrics.Collector
	preferred   Engine
	indexPrefix string

	mu         sync.RWMutex
	engine     Engine
	indexCache map[string]bool
}

// NewClient creates a search client. preferred is tried first, then
// OpenSearch, then Elasticsearch.
func NewClient(collector metrics.Collector, prefix string, preferred Engine, adapters ...Adapter) *Client {
	adapterMap := make(map[Engine]Adapter)
	for _, a := range adapters {
		if a != nil {
			adapterMap[a.Type()] = a
		}
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &Client{
		adapters:    adapterMap,
		collector:   collector,
		preferred:   preferred,
		indexPrefix: prefix,
		indexCache:  make(map[string]bool),
	}
}

// Engine returns the selected engine, selecting one if needed.
func (c *Client) Engine() Engine {
	a, err := c.getAdapter()
	if err != nil {
		return ""
	}
	return a.Type()
}

func (c *Client) buildIndexName(index string) string {
	if c.indexPrefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", c.indexPrefix, index)
}

func (c *Client) setEngine() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	priority := []Engine{c.preferred, OpenSearch, Elasticsearch}
	for _, eng := range priority {
		adapter, ok := c.adapters[eng]
		if !ok {
			continue
		}
		healthy := adapter.Health(ctx) == nil
		c.collector.HealthCheck(string(eng), healthy)
		if healthy {
			c.engine = eng
			return
		}
	}
}

func (c *Client) getAdapter() (Adapter, error) {
	c.mu.RLock()
	engine := c.engine
	c.mu.RUnlock()

	if engine == "" {
		c.mu.Lock()
		if c.engine == "" {
			c.setEngine()
		}
		engine = c.engine
		c.mu.Unlock()
		if engine == "" {
			return nil, ErrNoEngineAvailable
		}
	}

	if adapter, ok := c.adapters[engine]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, engine)
}

// Search runs a query DSL body against index.
func (c *Client) Search(ctx context.Context, index string, body []byte) (*Response, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := adapter.Search(ctx, c.buildIndexName(index), body)
	c.collector.SearchQuery(string(adapter.Type()), err)
	if err != nil {
		return nil, err
	}
	resp.Duration = time.Since(start)
	resp.Engine = adapter.Type()
	return resp, nil
}

// Get returns the source of document id, or ErrNotFound.
func (c *Client) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}
	src, err := adapter.Get(ctx, c.buildIndexName(index), id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.collector.SearchQuery(string(adapter.Type()), err)
	}
	return src, err
}

// Index upserts a document.
func (c *Client) Index(ctx context.Context, index, id string, document any) error {
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}
	if err := adapter.Index(ctx, c.buildIndexName(index), id, document); err != nil {
		return err
	}
	c.collector.SearchIndex(string(adapter.Type()), "index")
	return nil
}

// Delete removes a document. A missing document is not an error.
func (c *Client) Delete(ctx context.Context, index, id string) error {
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}
	if err := adapter.Delete(ctx, c.buildIndexName(index), id); err != nil {
		return err
	}
	c.collector.SearchIndex(string(adapter.Type()), "delete")
	return nil
}

// BulkIndex upserts documents in one request.
func (c *Client) BulkIndex(ctx context.Context, index string, documents []Document) error {
	if len(documents) == 0 {
		return nil
	}
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}
	if err := adapter.BulkIndex(ctx, c.buildIndexName(index), documents); err != nil {
		return err
	}
	c.collector.SearchIndex(string(adapter.Type()), "bulk")
	return nil
}

// EnsureIndex creates index with body unless it exists.
func (c *Client) EnsureIndex(ctx context.Context, index string, body []byte) error {
	fullIndex := c.buildIndexName(index)

	c.mu.RLock()
	exists := c.indexCache[fullIndex]
	c.mu.RUnlock()
	if exists {
		return nil
	}

	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}

	ok, err := adapter.IndexExists(ctx, fullIndex)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", fullIndex, err)
	}
	if !ok {
		if err := adapter.CreateIndex(ctx, fullIndex, body); err != nil {
			return fmt.Errorf("failed to create index %s: %w", fullIndex, err)
		}
		c.collector.SearchIndex(string(adapter.Type()), "create_index")
	}

	c.mu.Lock()
	c.indexCache[fullIndex] = true
	c.mu.Unlock()
	return nil
}

// Health checks the selected engine.
func (c *Client) Health(ctx context.Context) error {
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}
	err = adapter.Health(ctx)
	c.collector.HealthCheck(string(adapter.Type()), err == nil)
	return err
}
