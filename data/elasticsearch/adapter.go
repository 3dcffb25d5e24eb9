package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samujjwal/rental-sub006/data/elasticsearch/client"
	"github.com/samujjwal/rental-sub006/data/search"
)

type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Elasticsearch
}

func (a *Adapter) Search(ctx context.Context, index string, body []byte) (*search.Response, error) {
	if !a.client.Available() {
		return nil, errors.New("elasticsearch client not available")
	}

	raw, err := a.client.Search(ctx, index, body)
	if err != nil {
		return nil, err
	}
	return DecodeSearchResponse(raw)
}

// esResponse is the subset of the _search response the adapter reads.
type esResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
			Sort   []any           `json:"sort"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// DecodeSearchResponse decodes a _search response body. OpenSearch shares
// the format.
func DecodeSearchResponse(raw []byte) (*search.Response, error) {
	var r esResponse
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}

	hits := make([]search.Hit, len(r.Hits.Hits))
	for i, h := range r.Hits.Hits {
		hits[i] = search.Hit{ID: h.ID, Source: h.Source, Sort: h.Sort}
		if h.Score != nil {
			hits[i].Score = *h.Score
		}
	}
	return &search.Response{
		Total:        r.Hits.Total.Value,
		Hits:         hits,
		Aggregations: r.Aggregations,
	}, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	if !a.client.Available() {
		return nil, errors.New("elasticsearch client not available")
	}

	raw, found, err := a.client.GetDocument(ctx, index, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, search.ErrNotFound
	}
	var doc struct {
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	if !doc.Found {
		return nil, search.ErrNotFound
	}
	return doc.Source, nil
}

func (a *Adapter) Index(ctx context.Context, index, id string, document any) error {
	if !a.client.Available() {
		return errors.New("elasticsearch client not available")
	}
	return a.client.IndexDocument(ctx, index, id, document)
}

func (a *Adapter) Delete(ctx context.Context, index, id string) error {
	if !a.client.Available() {
		return errors.New("elasticsearch client not available")
	}
	return a.client.DeleteDocument(ctx, index, id)
}

func (a *Adapter) BulkIndex(ctx context.Context, index string, documents []search.Document) error {
	if !a.client.Available() {
		return errors.New("elasticsearch client not available")
	}

	body, err := BuildBulkBody(index, documents)
	if err != nil {
		return err
	}
	raw, err := a.client.Bulk(ctx, index, body)
	if err != nil {
		return err
	}
	return CheckBulkResponse(raw)
}

// BuildBulkBody renders documents as an NDJSON bulk index body.
func BuildBulkBody(index string, documents []search.Document) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range documents {
		action := map[string]map[string]string{"index": {"_index": index, "_id": doc.ID}}
		meta, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}
		src, err := json.Marshal(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("error encoding document %s: %w", doc.ID, err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(src)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// CheckBulkResponse returns an error naming the first failed item.
func CheckBulkResponse(raw []byte) error {
	var r struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string          `json:"_id"`
			Status int             `json:"status"`
			Error  json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("bulk response parsing error: %w", err)
	}
	if !r.Errors {
		return nil
	}
	failed := 0
	var first string
	for _, item := range r.Items {
		for _, res := range item {
			if res.Status >= 300 {
				if failed == 0 {
					first = fmt.Sprintf("%s: %s", res.ID, string(res.Error))
				}
				failed++
			}
		}
	}
	return fmt.Errorf("bulk index error: %d of %d items failed, first %s", failed, len(r.Items), first)
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	if !a.client.Available() {
		return false, errors.New("elasticsearch client not available")
	}
	return a.client.IndexExists(ctx, index)
}

func (a *Adapter) CreateIndex(ctx context.Context, index string, body []byte) error {
	if !a.client.Available() {
		return errors.New("elasticsearch client not available")
	}
	return a.client.CreateIndex(ctx, index, body)
}

func (a *Adapter) Health(ctx context.Context) error {
	if !a.client.Available() {
		return errors.New("elasticsearch client not available")
	}
	return a.client.Ping(ctx)
}
