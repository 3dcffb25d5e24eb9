package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*Database      `yaml:"database" json:"database"`
	*Redis         `yaml:"redis" json:"redis"`
	*Meilisearch   `yaml:"meilisearch" json:"meilisearch"`
	*Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	*OpenSearch    `yaml:"opensearch" json:"opensearch"`
	*RabbitMQ      `yaml:"rabbitmq" json:"rabbitmq"`
	*Kafka         `yaml:"kafka" json:"kafka"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Database:      getDatabaseConfig(v),
		Redis:         getRedisConfigs(v),
		Meilisearch:   getMeilisearchConfigs(v),
		Elasticsearch: getElasticsearchConfigs(v),
		OpenSearch:    getOpenSearchConfigs(v),
		RabbitMQ:      getRabbitMQConfigs(v),
		Kafka:         getKafkaConfigs(v),
	}
}

// pick returns key under data.search when set there, else under data.
func pick(v *viper.Viper, key string) string {
	if k := "data.search." + key; v.IsSet(k) {
		return k
	}
	return "data." + key
}
