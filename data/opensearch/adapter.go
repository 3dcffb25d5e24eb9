package opensearch

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/samujjwal/rental-sub006/data/elasticsearch"
	"github.com/samujjwal/rental-sub006/data/opensearch/client"
	"github.com/samujjwal/rental-sub006/data/search"
)

type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.OpenSearch
}

func (a *Adapter) Search(ctx context.Context, index string, body []byte) (*search.Response, error) {
	if !a.client.Available() {
		return nil, errors.New("opensearch client not available")
	}

	res, err := a.client.Search(ctx, index, body)
	if err != nil {
		return nil, err
	}

	hits := make([]search.Hit, len(res.Hits.Hits))
	for i, h := range res.Hits.Hits {
		hits[i] = search.Hit{
			ID:     h.ID,
			Score:  float64(h.Score),
			Source: h.Source,
			Sort:   h.Sort,
		}
	}

	var aggs map[string]json.RawMessage
	if len(res.Aggregations) > 0 {
		if err := json.Unmarshal(res.Aggregations, &aggs); err != nil {
			return nil, err
		}
	}

	return &search.Response{
		Total:        int64(res.Hits.Total.Value),
		Hits:         hits,
		Aggregations: aggs,
	}, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	if !a.client.Available() {
		return nil, errors.New("opensearch client not available")
	}
	src, found, err := a.client.GetDocument(ctx, index, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, search.ErrNotFound
	}
	return src, nil
}

func (a *Adapter) Index(ctx context.Context, index, id string, document any) error {
	if !a.client.Available() {
		return errors.New("opensearch client not available")
	}
	return a.client.IndexDocument(ctx, index, id, document)
}

func (a *Adapter) Delete(ctx context.Context, index, id string) error {
	if !a.client.Available() {
		return errors.New("opensearch client not available")
	}
	return a.client.DeleteDocument(ctx, index, id)
}

func (a *Adapter) BulkIndex(ctx context.Context, index string, documents []search.Document) error {
	if !a.client.Available() {
		return errors.New("opensearch client not available")
	}
	body, err := elasticsearch.BuildBulkBody(index, documents)
	if err != nil {
		return err
	}
	return a.client.Bulk(ctx, index, body)
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	if !a.client.Available() {
		return false, errors.New("opensearch client not available")
	}
	return a.client.IndexExists(ctx, index)
}

func (a *Adapter) CreateIndex(ctx context.Context, index string, body []byte) error {
	if !a.client.Available() {
		return errors.New("opensearch client not available")
	}
	return a.client.CreateIndex(ctx, index, body)
}

func (a *Adapter) Health(ctx context.Context) error {
	if !a.client.Available() {
		return errors.New("opensearch client not available")
	}
	return a.client.Health(ctx)
}
