// Package stream publishes the live observation stream over MQTT so
// external dashboards can follow a run. It is a pure consumer of the
// observer boundary; the simulation never depends on it.
package stream

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Jingren-Tang/minitransit/core/sim"
	"github.com/Jingren-Tang/minitransit/infra/logger"
)

// Config holds the MQTT connection settings.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "minitransit"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "minitransit"
	}
}

// Publisher sends each observation record as a JSON message on
// <prefix>/<runID>/events. Publishing is fire-and-forget: a slow or absent
// broker must never stall the simulation.
type Publisher struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    logger.Logger
}

// NewPublisher connects to the broker.
func NewPublisher(cfg Config, runID string) (*Publisher, error) {
	cfg.SetDefaults()
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(fmt.Sprintf("%s-%s", cfg.ClientID, runID)).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("stream: connect %s: %w", cfg.Broker, token.Error())
	}
	return &Publisher{
		client: client,
		topic:  fmt.Sprintf("%s/%s/events", cfg.TopicPrefix, runID),
		qos:    cfg.QoS,
		log:    logger.New("stream"),
	}, nil
}

// Observe implements sim.Observer.
func (p *Publisher) Observe(o sim.Observation) {
	payload, err := json.Marshal(o)
	if err != nil {
		p.log.Errorf("marshal observation: %v", err)
		return
	}
	p.client.Publish(p.topic, p.qos, false, payload)
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(250)
}
