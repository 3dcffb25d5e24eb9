package config

import (
	"strings"

	dc "github.com/samujjwal/rental-sub006/data/config"
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level         int
	Format        string
	Output        string
	OutputFile    string
	IndexName     string
	Meilisearch   *dc.Meilisearch
	Elasticsearch *dc.Elasticsearch
}

func getLoggerConfig(v *viper.Viper) *Logger {
	indexName := strings.ToLower(getStringOrDefault(v, "app_name", "discovery") + "-log")
	return &Logger{
		Level:      getIntOrDefault(v, "logger.level", 4),
		Format:     getStringOrDefault(v, "logger.format", "json"),
		Output:     getStringOrDefault(v, "logger.output", "stdout"),
		OutputFile: v.GetString("logger.output_file"),
		IndexName:  getStringOrDefault(v, "logger.index_name", indexName),
		Meilisearch: &dc.Meilisearch{
			Host:   v.GetString("logger.meilisearch.host"),
			APIKey: v.GetString("logger.meilisearch.api_key"),
		},
		Elasticsearch: &dc.Elasticsearch{
			Addresses: v.GetStringSlice("logger.elasticsearch.addresses"),
			Username:  v.GetString("logger.elasticsearch.username"),
			Password:  v.GetString("logger.elasticsearch.password"),
		},
	}
}
