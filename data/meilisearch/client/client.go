package client

import (
	"errors"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
)

// Client Meilisearch client
type Client struct {
	client meilisearch.ServiceManager
}

// NewMeilisearch new Meilisearch client
func NewMeilisearch(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	return &Client{client: meilisearch.New(host, meilisearch.WithAPIKey(apiKey))}
}

// Available reports whether the client was configured.
func (c *Client) Available() bool {
	return c != nil && c.client != nil
}

// IndexDocuments index document to Meilisearch
func (c *Client) IndexDocuments(index string, document any, primaryKey ...string) error {
	if !c.Available() {
		return errors.New("meilisearch client is nil, cannot index documents")
	}
	if _, err := c.client.Index(index).AddDocuments(document, primaryKey...); err != nil {
		return fmt.Errorf("meilisearch index document error: %w", err)
	}
	return nil
}

// IsHealthy reports server health.
func (c *Client) IsHealthy() bool {
	return c.Available() && c.client.IsHealthy()
}
