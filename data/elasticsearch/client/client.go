package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var errNilClient = errors.New("elasticsearch client is nil")

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// NewClient new Elasticsearch client
func NewClient(addresses []string, username, password string) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// Available reports whether the client was configured.
func (c *Client) Available() bool {
	return c != nil && c.client != nil
}

// Search runs body against index and returns the raw response body.
func (c *Client) Search(ctx context.Context, index string, body []byte) ([]byte, error) {
	if !c.Available() {
		return nil, errNilClient
	}

	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(index),
		c.client.Search.WithBody(bytes.NewReader(body)),
		c.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search error: %w", err)
	}
	return readBody(res, "search")
}

// GetDocument returns the raw get response, found reports a 200.
func (c *Client) GetDocument(ctx context.Context, index, id string) (raw []byte, found bool, err error) {
	if !c.Available() {
		return nil, false, errNilClient
	}

	res, err := c.client.Get(index, id, c.client.Get.WithContext(ctx))
	if err != nil {
		return nil, false, fmt.Errorf("elasticsearch get error: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil, false, nil
	}
	raw, err = readBody(res, "get")
	return raw, err == nil, err
}

// IndexDocument index document to Elasticsearch
func (c *Client) IndexDocument(ctx context.Context, index, id string, document any) error {
	if !c.Available() {
		return errNilClient
	}

	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("elasticsearch indexing error: %w", err)
	}
	_, err = readBody(res, "indexing")
	return err
}

// DeleteDocument delete document from Elasticsearch. A missing document is
// not an error.
func (c *Client) DeleteDocument(ctx context.Context, index, id string) error {
	if !c.Available() {
		return errNilClient
	}

	req := esapi.DeleteRequest{
		Index:      index,
		DocumentID: id,
		Refresh:    "true",
	}
	res, err := req.Do(ctx, c.client)
	if err != nil {
		return fmt.Errorf("elasticsearch deletion error: %w", err)
	}
	if res.StatusCode == http.StatusNotFound {
		_ = res.Body.Close()
		return nil
	}
	_, err = readBody(res, "deletion")
	return err
}

// Bulk sends an NDJSON bulk body.
func (c *Client) Bulk(ctx context.Context, index string, body []byte) ([]byte, error) {
	if !c.Available() {
		return nil, errNilClient
	}

	res, err := c.client.Bulk(bytes.NewReader(body),
		c.client.Bulk.WithContext(ctx),
		c.client.Bulk.WithIndex(index),
		c.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch bulk error: %w", err)
	}
	return readBody(res, "bulk")
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	if !c.Available() {
		return false, errNilClient
	}

	res, err := c.client.Indices.Exists([]string{index}, c.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check elasticsearch index existence: %w", err)
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK, nil
}

// CreateIndex creates index with the settings and mappings in body.
func (c *Client) CreateIndex(ctx context.Context, index string, body []byte) error {
	if !c.Available() {
		return errNilClient
	}

	res, err := c.client.Indices.Create(index,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch index: %w", err)
	}
	_, err = readBody(res, "index creation")
	return err
}

// Ping checks cluster reachability.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Available() {
		return errNilClient
	}

	res, err := c.client.Info(c.client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = readBody(res, "info")
	return err
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}

func readBody(res *esapi.Response, op string) ([]byte, error) {
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch %s read error: %w", op, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch %s error: %s: %s", op, res.Status(), truncate(raw, 512))
	}
	return raw, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
