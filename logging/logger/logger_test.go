package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/ctxutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestKeyValueFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.DebugLevel)
	l.SetVersion("1.2.3")

	ctx := ctxutil.SetTraceID(context.Background(), "trace-1")
	l.Warn(ctx, "cache get failed", "operation", "search", "error", errors.New("timeout"))

	m := decode(t, &buf)
	assert.Equal(t, "cache get failed", m["msg"])
	assert.Equal(t, "warning", m["level"])
	assert.Equal(t, "search", m["operation"])
	assert.Equal(t, "timeout", m["error"])
	assert.Equal(t, "trace-1", m[ctxutil.TraceIDKey])
	assert.Equal(t, "1.2.3", m[VersionKey])
}

func TestDanglingKey(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.InfoLevel)
	l.Info(context.Background(), "odd", "alone")
	assert.Equal(t, "alone", decode(t, &buf)["extra"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, logrus.InfoLevel)
	l.Debug(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.Debugf(context.Background(), "fetched %d messages", 2)
	assert.Zero(t, buf.Len())

	l.Infof(context.Background(), "indexed %d listings", 3)
	assert.Equal(t, "indexed 3 listings", decode(t, &buf)["msg"])

	buf.Reset()
	l.Warnf(context.Background(), "offset %d uncommitted", 7)
	m := decode(t, &buf)
	assert.Equal(t, "offset 7 uncommitted", m["msg"])
	assert.Equal(t, "warning", m["level"])
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "discovery.log")
	l, cleanup, err := New(&config.Logger{Level: int(logrus.InfoLevel), Format: "json", Output: "file", OutputFile: path})
	require.NoError(t, err)

	l.Info(context.Background(), "started", "port", 8080)
	cleanup()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"port":8080`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(&config.Logger{Output: "file"})
	assert.Error(t, err)
}

func TestPrepareLogDocument(t *testing.T) {
	entry := &logrus.Entry{
		Data:    logrus.Fields{"listing_id": "l1"},
		Time:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Level:   logrus.ErrorLevel,
		Message: "index failed",
	}
	doc := prepareLogDocument(entry, "host-a")
	assert.Equal(t, "l1", doc["listing_id"])
	assert.Equal(t, "error", doc["level"])
	assert.Equal(t, "index failed", doc["message"])
	assert.Equal(t, "host-a", doc["hostname"])
	assert.Equal(t, "2024-05-01T10:00:00Z", doc["@timestamp"])

	h := NewElasticSearchHook(nil, "discovery-log")
	assert.Equal(t, "discovery-log-2024.05.01", h.indexName(entry.Time))
}
