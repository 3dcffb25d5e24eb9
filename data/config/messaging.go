package config

import (
	"time"

	"github.com/spf13/viper"
)

// Kafka kafka config struct
type Kafka struct {
	Brokers       []string      `json:"brokers" yaml:"brokers"`
	ClientID      string        `json:"client_id" yaml:"client_id"`
	ConsumerGroup string        `json:"consumer_group" yaml:"consumer_group"`
	Topic         string        `json:"topic" yaml:"topic"`
	ReadTimeout   time.Duration `json:"read_timeout" yaml:"read_timeout"`
}

// RabbitMQ rabbitmq config struct
type RabbitMQ struct {
	URL               string        `json:"url" yaml:"url"`
	Exchange          string        `json:"exchange" yaml:"exchange"`
	Queue             string        `json:"queue" yaml:"queue"`
	RoutingKey        string        `json:"routing_key" yaml:"routing_key"`
	ConnectionTimeout time.Duration `json:"connection_timeout" yaml:"connection_timeout"`
	HeartbeatInterval time.Duration `json:"heartbeat_interval" yaml:"heartbeat_interval"`
}

func getKafkaConfigs(v *viper.Viper) *Kafka {
	c := &Kafka{
		Brokers:       v.GetStringSlice("data.kafka.brokers"),
		ClientID:      v.GetString("data.kafka.client_id"),
		ConsumerGroup: v.GetString("data.kafka.consumer_group"),
		Topic:         v.GetString("data.kafka.topic"),
		ReadTimeout:   v.GetDuration("data.kafka.read_timeout"),
	}
	if c.Topic == "" {
		c.Topic = "listing-events"
	}
	if c.ConsumerGroup == "" {
		c.ConsumerGroup = "discovery-indexer"
	}
	return c
}

func getRabbitMQConfigs(v *viper.Viper) *RabbitMQ {
	c := &RabbitMQ{
		URL:               v.GetString("data.rabbitmq.url"),
		Exchange:          v.GetString("data.rabbitmq.exchange"),
		Queue:             v.GetString("data.rabbitmq.queue"),
		RoutingKey:        v.GetString("data.rabbitmq.routing_key"),
		ConnectionTimeout: v.GetDuration("data.rabbitmq.connection_timeout"),
		HeartbeatInterval: v.GetDuration("data.rabbitmq.heartbeat_interval"),
	}
	if c.Exchange == "" {
		c.Exchange = "listings"
	}
	if c.Queue == "" {
		c.Queue = "discovery-indexer"
	}
	if c.RoutingKey == "" {
		c.RoutingKey = "listing.#"
	}
	return c
}
