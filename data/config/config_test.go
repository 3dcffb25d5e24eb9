package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestSearchEngineConfigs_PreferDataSearchNamespace(t *testing.T) {
	v := viper.New()

	v.Set("data.elasticsearch.addresses", []string{"http://legacy:9200"})
	v.Set("data.elasticsearch.username", "legacy-user")
	v.Set("data.search.elasticsearch.addresses", []string{"http://search:9200"})
	v.Set("data.search.elasticsearch.username", "search-user")

	es := getElasticsearchConfigs(v)
	if len(es.Addresses) != 1 || es.Addresses[0] != "http://search:9200" {
		t.Fatalf("expected addresses from data.search.elasticsearch, got %v", es.Addresses)
	}
	if es.Username != "search-user" {
		t.Fatalf("expected username from data.search.elasticsearch, got %q", es.Username)
	}
}

func TestSearchEngineConfigs_FallbackToDataNamespace(t *testing.T) {
	v := viper.New()
	v.Set("data.opensearch.addresses", []string{"https://os:9200"})
	v.Set("data.opensearch.insecure_skip_tls", true)

	os := getOpenSearchConfigs(v)
	if len(os.Addresses) != 1 || os.Addresses[0] != "https://os:9200" {
		t.Fatalf("expected addresses from data.opensearch, got %v", os.Addresses)
	}
	if !os.InsecureSkipTLS {
		t.Fatalf("expected insecure_skip_tls from data.opensearch")
	}
}

func TestDatabaseDefaults(t *testing.T) {
	v := viper.New()
	v.Set("data.database.source", "file::memory:")
	v.Set("data.database.max_life_time", "30s")

	db := getDatabaseConfig(v)
	if db.Driver != "postgres" {
		t.Fatalf("expected default driver postgres, got %q", db.Driver)
	}
	if db.ConnMaxLifeTime != 30*time.Second {
		t.Fatalf("expected 30s lifetime, got %v", db.ConnMaxLifeTime)
	}
}

func TestMessagingDefaults(t *testing.T) {
	c := GetConfig(viper.New())
	if c.Kafka.Topic != "listing-events" || c.Kafka.ConsumerGroup != "discovery-indexer" {
		t.Fatalf("unexpected kafka defaults: %+v", c.Kafka)
	}
	if c.RabbitMQ.Exchange != "listings" || c.RabbitMQ.RoutingKey != "listing.#" {
		t.Fatalf("unexpected rabbitmq defaults: %+v", c.RabbitMQ)
	}
}
