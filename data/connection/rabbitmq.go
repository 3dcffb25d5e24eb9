package connection

import (
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	dc "github.com/samujjwal/rental-sub006/data/config"
)

func newRabbitMQConnection(conf *dc.RabbitMQ) (*amqp.Connection, error) {
	heartbeat := conf.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 10 * time.Second
	}
	cfg := amqp.Config{Heartbeat: heartbeat, Locale: "en_US"}
	if conf.ConnectionTimeout > 0 {
		cfg.Dial = amqp.DefaultDial(conf.ConnectionTimeout)
	}

	conn, err := amqp.DialConfig(conf.URL, cfg)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connect error: %w", err)
	}
	return conn, nil
}
