package logger

import (
	"context"
	"os"
	"time"

	esclient "github.com/samujjwal/rental-sub006/data/elasticsearch/client"
	"github.com/sirupsen/logrus"
)

const hookTimeout = 2 * time.Second

// ElasticSearchHook ships log entries to a daily Elasticsearch index.
type ElasticSearchHook struct {
	client   *esclient.Client
	index    string
	hostname string
}

// NewElasticSearchHook creates new Elasticsearch hook
func NewElasticSearchHook(client *esclient.Client, index string) *ElasticSearchHook {
	hostname, _ := os.Hostname()
	return &ElasticSearchHook{client: client, index: index, hostname: hostname}
}

// Levels returns the levels shipped, info and above.
func (h *ElasticSearchHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

// Fire sends log entry to Elasticsearch
func (h *ElasticSearchHook) Fire(entry *logrus.Entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), hookTimeout)
	defer cancel()
	return h.client.IndexDocument(ctx, h.indexName(entry.Time), "", prepareLogDocument(entry, h.hostname))
}

func (h *ElasticSearchHook) indexName(t time.Time) string {
	return h.index + "-" + t.Format("2006.01.02")
}

// prepareLogDocument flattens an entry into the stored document.
func prepareLogDocument(entry *logrus.Entry, hostname string) map[string]any {
	doc := make(map[string]any, len(entry.Data)+5)
	for key, value := range entry.Data {
		doc[key] = value
	}
	doc["@timestamp"] = entry.Time.Format(time.RFC3339Nano)
	doc["level"] = entry.Level.String()
	doc["message"] = entry.Message
	if hostname != "" {
		doc["hostname"] = hostname
	}
	return doc
}
