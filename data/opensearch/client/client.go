package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

var errNilClient = errors.New("opensearch client is nil")

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(addresses []string, username, password string, insecure bool) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  addresses,
				Username:   username,
				Password:   password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

// Available reports whether the client was configured.
func (c *Client) Available() bool {
	return c != nil && c.client != nil
}

// Search performs a search in OpenSearch
func (c *Client) Search(ctx context.Context, index string, body []byte) (*opensearchapi.SearchResp, error) {
	if !c.Available() {
		return nil, errNilClient
	}

	res, err := c.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch search error: %w", err)
	}
	return res, nil
}

// GetDocument returns the document source, found is false on a 404.
func (c *Client) GetDocument(ctx context.Context, index, id string) (json.RawMessage, bool, error) {
	if !c.Available() {
		return nil, false, errNilClient
	}

	res, err := c.client.Document.Get(ctx, opensearchapi.DocumentGetReq{
		Index:      index,
		DocumentID: id,
	})
	if res != nil && isStatus(res.Inspect().Response, http.StatusNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opensearch get error: %w", err)
	}
	if !res.Found {
		return nil, false, nil
	}
	return res.Source, true, nil
}

// IndexDocument indexes a document in OpenSearch
func (c *Client) IndexDocument(ctx context.Context, index, id string, document any) error {
	if !c.Available() {
		return errNilClient
	}

	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	_, err = c.client.Index(ctx, opensearchapi.IndexReq{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(data),
		Params:     opensearchapi.IndexParams{Refresh: "true"},
	})
	if err != nil {
		return fmt.Errorf("opensearch indexing error: %w", err)
	}
	return nil
}

// DeleteDocument deletes a document. A missing document is not an error.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	if !c.Available() {
		return errNilClient
	}

	res, err := c.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: id,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: "true"},
	})
	if res != nil && isStatus(res.Inspect().Response, http.StatusNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opensearch deletion error: %w", err)
	}
	return nil
}

// Bulk sends an NDJSON bulk body and reports item failures.
func (c *Client) Bulk(ctx context.Context, index string, body []byte) error {
	if !c.Available() {
		return errNilClient
	}

	res, err := c.client.Bulk(ctx, opensearchapi.BulkReq{
		Index:  index,
		Body:   bytes.NewReader(body),
		Params: opensearchapi.BulkParams{Refresh: "true"},
	})
	if err != nil {
		return fmt.Errorf("opensearch bulk index error: %w", err)
	}
	if res.Errors {
		failed := 0
		for _, item := range res.Items {
			for _, r := range item {
				if r.Status >= 300 {
					failed++
				}
			}
		}
		return fmt.Errorf("opensearch bulk index error: %d of %d items failed", failed, len(res.Items))
	}
	return nil
}

// CreateIndex creates a new index with optional mappings
func (c *Client) CreateIndex(ctx context.Context, index string, body []byte) error {
	if !c.Available() {
		return errNilClient
	}

	req := opensearchapi.IndicesCreateReq{Index: index}
	if len(body) > 0 {
		req.Body = bytes.NewReader(body)
	}

	_, err := c.client.Indices.Create(ctx, req)
	if err != nil {
		var opensearchError *opensearch.StructError
		if errors.As(err, &opensearchError) && opensearchError.Err.Type == "resource_already_exists_exception" {
			return nil
		}
		return fmt.Errorf("opensearch create index error: %w", err)
	}
	return nil
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	if !c.Available() {
		return false, errNilClient
	}

	res, err := c.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{index},
	})
	if isStatus(res, http.StatusNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opensearch index exists error: %w", err)
	}
	return res.StatusCode == http.StatusOK, nil
}

// Health checks cluster health, red is reported as an error.
func (c *Client) Health(ctx context.Context) error {
	if !c.Available() {
		return errNilClient
	}

	res, err := c.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return fmt.Errorf("opensearch health check error: %w", err)
	}
	if res.Status == "red" {
		return errors.New("opensearch cluster status red")
	}
	return nil
}

func isStatus(r *opensearch.Response, status int) bool {
	return r != nil && r.StatusCode == status
}
