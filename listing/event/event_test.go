package event

import (
	"context"
	"errors"
	"testing"

	"github.com/samujjwal/rental-sub006/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingIndexer struct {
	indexed []string
	removed []string
	traces  []string
	err     error
}

func (r *recordingIndexer) IndexListing(ctx context.Context, id string) error {
	r.indexed = append(r.indexed, id)
	r.traces = append(r.traces, ctxutil.GetTraceID(ctx))
	return r.err
}

func (r *recordingIndexer) RemoveListing(ctx context.Context, id string) error {
	r.removed = append(r.removed, id)
	r.traces = append(r.traces, ctxutil.GetTraceID(ctx))
	return r.err
}

func TestDecode(t *testing.T) {
	e, err := Decode([]byte(`{"type":"listing.updated","listing_id":"listing-1"}`))
	require.NoError(t, err)
	assert.Equal(t, ListingUpdated, e.Type)
	assert.Equal(t, "listing-1", e.ListingID)

	tests := map[string]string{
		"not json":     `{`,
		"missing id":   `{"type":"listing.created"}`,
		"unknown type": `{"type":"listing.archived","listing_id":"x"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode([]byte(body))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDispatcherRoutesEvents(t *testing.T) {
	ix := &recordingIndexer{}
	d := NewDispatcher(ix, nil, nil, 0)
	ctx := context.Background()

	require.NoError(t, d.Handle(ctx, []byte(`{"type":"listing.created","listing_id":"a"}`)))
	require.NoError(t, d.Handle(ctx, []byte(`{"type":"listing.updated","listing_id":"b"}`)))
	require.NoError(t, d.Handle(ctx, []byte(`{"type":"listing.deleted","listing_id":"c","trace_id":"trace-1"}`)))

	assert.Equal(t, []string{"a", "b"}, ix.indexed)
	assert.Equal(t, []string{"c"}, ix.removed)
	require.Len(t, ix.traces, 3)
	assert.NotEmpty(t, ix.traces[0])
	assert.Equal(t, "trace-1", ix.traces[2])
}

func TestDispatcherErrors(t *testing.T) {
	ix := &recordingIndexer{err: errors.New("index down")}
	d := NewDispatcher(ix, nil, nil, 0)

	err := d.Handle(context.Background(), []byte(`{"type":"listing.created","listing_id":"a"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)

	err = d.Handle(context.Background(), []byte(`garbage`))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Len(t, ix.indexed, 1)
}

func TestNewKafkaSubscriberRequiresBrokers(t *testing.T) {
	_, err := NewKafkaSubscriber(nil, nil)
	assert.Error(t, err)
}

func TestNewRabbitSubscriberRequiresConnection(t *testing.T) {
	_, err := NewRabbitSubscriber(nil, nil, nil)
	assert.Error(t, err)
}
