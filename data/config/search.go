package config

import "github.com/spf13/viper"

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
}

// Engine credentials are read from data.search.<engine> first and fall back
// to data.<engine>.

func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	return &Elasticsearch{
		Addresses: v.GetStringSlice(pick(v, "elasticsearch.addresses")),
		Username:  v.GetString(pick(v, "elasticsearch.username")),
		Password:  v.GetString(pick(v, "elasticsearch.password")),
	}
}

func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	return &OpenSearch{
		Addresses:       v.GetStringSlice(pick(v, "opensearch.addresses")),
		Username:        v.GetString(pick(v, "opensearch.username")),
		Password:        v.GetString(pick(v, "opensearch.password")),
		InsecureSkipTLS: v.GetBool(pick(v, "opensearch.insecure_skip_tls")),
	}
}

func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	return &Meilisearch{
		Host:   v.GetString(pick(v, "meilisearch.host")),
		APIKey: v.GetString(pick(v, "meilisearch.api_key")),
	}
}
