package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"sensortag-bridge/internal/sensor"
)

// Timestamps are second precision UTC with a trailing Z.
const timeLayout = "2006-01-02T15:04:05Z"

// PublishError reports a single observation the broker did not take. It never
// aborts the rest of a batch.
type PublishError struct {
	Topic string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %s: %v", e.Topic, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Broker is the publish capability the Publisher needs.
type Broker interface {
	Publish(topic string, payload []byte) error
}

// Publisher maps measurements onto retained per-sensor topics under a fixed
// root, serialized as Observation envelopes.
type Publisher struct {
	broker Broker
	root   string
	logger *slog.Logger
}

func NewPublisher(broker Broker, root string, logger *slog.Logger) *Publisher {
	return &Publisher{
		broker: broker,
		root:   root,
		logger: logger,
	}
}

type observation struct {
	AssetID         string  `json:"AssetID"`
	SensorTypeCode  string  `json:"SensorTypeCode"`
	LocationID      string  `json:"LocationID"`
	MeasureContent  float64 `json:"MeasureContent"`
	MeasureUnitCode string  `json:"MeasureUnitCode"`
	DateTime        string  `json:"DateTime"`
}

type envelope struct {
	Observation observation `json:"Observation"`
}

// PublishMeasurement serializes one measurement and hands it to the broker.
func (p *Publisher) PublishMeasurement(m sensor.Measurement) error {
	payload, err := json.Marshal(envelope{Observation: observation{
		AssetID:         m.AssetID,
		SensorTypeCode:  string(m.Kind),
		LocationID:      m.LocationID,
		MeasureContent:  m.Value,
		MeasureUnitCode: m.Unit,
		DateTime:        m.CapturedAt.UTC().Format(timeLayout),
	}})
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}

	topic := p.Topic(m.Kind)
	if err := p.broker.Publish(topic, payload); err != nil {
		return &PublishError{Topic: topic, Err: err}
	}

	p.logger.Debug("observation published", "topic", topic, "kind", m.Kind, "value", m.Value)
	return nil
}

// Topic derives the topic for a sensor type: the configured root plus the
// type with any whitespace removed.
func (p *Publisher) Topic(kind sensor.Kind) string {
	return p.root + "/" + strings.Join(strings.Fields(string(kind)), "")
}
