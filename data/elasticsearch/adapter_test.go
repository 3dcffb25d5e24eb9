package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/samujjwal/rental-sub006/data/elasticsearch/client"
	"github.com/samujjwal/rental-sub006/data/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResponse(t *testing.T) {
	raw := []byte(`{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_id": "a", "_score": 3.5, "_source": {"title": "Tent"}, "sort": [1.2, 3.5]},
				{"_id": "b", "_score": null, "_source": {"title": "Kayak"}}
			]
		},
		"aggregations": {"price": {"min": 10, "max": 20, "avg": 15}}
	}`)

	resp, err := DecodeSearchResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Hits, 2)
	assert.Equal(t, "a", resp.Hits[0].ID)
	assert.Equal(t, 3.5, resp.Hits[0].Score)
	assert.Equal(t, []any{1.2, 3.5}, resp.Hits[0].Sort)
	assert.Equal(t, 0.0, resp.Hits[1].Score)
	assert.JSONEq(t, `{"title":"Kayak"}`, string(resp.Hits[1].Source))
	assert.Contains(t, resp.Aggregations, "price")
}

func TestBuildBulkBody(t *testing.T) {
	body, err := BuildBulkBody("listings", []search.Document{
		{ID: "1", Body: map[string]string{"title": "Tent"}},
		{ID: "2", Body: map[string]string{"title": "Kayak"}},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))
	require.Len(t, lines, 4)

	var action map[string]map[string]string
	require.NoError(t, json.Unmarshal(lines[0], &action))
	assert.Equal(t, "listings", action["index"]["_index"])
	assert.Equal(t, "1", action["index"]["_id"])
	assert.JSONEq(t, `{"title":"Kayak"}`, string(lines[3]))
}

func TestCheckBulkResponse(t *testing.T) {
	assert.NoError(t, CheckBulkResponse([]byte(`{"errors": false, "items": []}`)))

	err := CheckBulkResponse([]byte(`{"errors": true, "items": [
		{"index": {"_id": "1", "status": 201}},
		{"index": {"_id": "2", "status": 400, "error": {"type": "mapper_parsing_exception"}}}
	]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 items failed")
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestAdapterWithoutClient(t *testing.T) {
	c, err := client.NewClient(nil, "", "")
	require.NoError(t, err)
	a := NewAdapter(c)

	assert.Equal(t, search.Elasticsearch, a.Type())
	assert.Error(t, a.Health(context.Background()))
	_, err = a.Search(context.Background(), "listings", []byte(`{}`))
	assert.Error(t, err)
}
