package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnconfiguredClient(t *testing.T) {
	c := NewMeilisearch("", "")
	assert.False(t, c.Available())
	assert.False(t, c.IsHealthy())
	assert.Error(t, c.IndexDocuments("logs", map[string]string{"id": "1"}))
}

func TestConfiguredClient(t *testing.T) {
	c := NewMeilisearch("http://127.0.0.1:7700", "key")
	assert.True(t, c.Available())
}
