package logger

import (
	"github.com/google/uuid"
	meiliclient "github.com/samujjwal/rental-sub006/data/meilisearch/client"
	"github.com/sirupsen/logrus"
)

// MeiliSearchHook represents a MeiliSearch log hook
type MeiliSearchHook struct {
	client *meiliclient.Client
	index  string
}

// NewMeiliSearchHook creates new MeiliSearch hook
func NewMeiliSearchHook(client *meiliclient.Client, index string) *MeiliSearchHook {
	return &MeiliSearchHook{client: client, index: index}
}

// Levels returns warn and above.
func (h *MeiliSearchHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

// Fire sends log entry to MeiliSearch
func (h *MeiliSearchHook) Fire(entry *logrus.Entry) error {
	doc := prepareLogDocument(entry, "")
	doc["id"] = uuid.NewString()
	return h.client.IndexDocuments(h.index, []map[string]any{doc}, "id")
}
