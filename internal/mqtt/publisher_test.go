package mqtt

import (
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"sensortag-bridge/internal/sensor"
)

type fakeBroker struct {
	topics   []string
	payloads [][]byte
	err      error
}

func (b *fakeBroker) Publish(topic string, payload []byte) error {
	if b.err != nil {
		return b.err
	}
	b.topics = append(b.topics, topic)
	b.payloads = append(b.payloads, payload)
	return nil
}

func testMeasurement() sensor.Measurement {
	return sensor.Measurement{
		AssetID:    "TI-SensorTag-27F186",
		LocationID: "Labor_ColorSorter_Umgebung",
		Kind:       sensor.KindTemperature,
		Value:      23.81,
		Unit:       sensor.UnitCelsius,
		CapturedAt: time.Date(2024, 5, 14, 9, 30, 17, 0, time.UTC),
	}
}

func TestPublisher_PublishMeasurement(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker, "Factory/ColorSorter/ConditionMonitoring", slog.New(slog.DiscardHandler))

	if err := p.PublishMeasurement(testMeasurement()); err != nil {
		t.Fatalf("PublishMeasurement() error = %v, want nil", err)
	}

	if len(broker.topics) != 1 {
		t.Fatalf("broker saw %d messages, want 1", len(broker.topics))
	}
	if got, want := broker.topics[0], "Factory/ColorSorter/ConditionMonitoring/Temperature"; got != want {
		t.Errorf("topic = %q, want %q", got, want)
	}

	var env envelope
	if err := json.Unmarshal(broker.payloads[0], &env); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	obs := env.Observation
	if obs.AssetID != "TI-SensorTag-27F186" {
		t.Errorf("AssetID = %q, want %q", obs.AssetID, "TI-SensorTag-27F186")
	}
	if obs.SensorTypeCode != "Temperature" {
		t.Errorf("SensorTypeCode = %q, want %q", obs.SensorTypeCode, "Temperature")
	}
	if obs.LocationID != "Labor_ColorSorter_Umgebung" {
		t.Errorf("LocationID = %q, want %q", obs.LocationID, "Labor_ColorSorter_Umgebung")
	}
	if obs.MeasureContent != 23.81 {
		t.Errorf("MeasureContent = %v, want 23.81", obs.MeasureContent)
	}
	if obs.MeasureUnitCode != "CEL" {
		t.Errorf("MeasureUnitCode = %q, want %q", obs.MeasureUnitCode, "CEL")
	}
	if obs.DateTime != "2024-05-14T09:30:17Z" {
		t.Errorf("DateTime = %q, want %q", obs.DateTime, "2024-05-14T09:30:17Z")
	}
}

func TestPublisher_TimestampIsSecondPrecisionUTC(t *testing.T) {
	broker := &fakeBroker{}
	p := NewPublisher(broker, "root", slog.New(slog.DiscardHandler))

	berlin := time.FixedZone("CEST", 2*60*60)
	m := testMeasurement()
	m.CapturedAt = time.Date(2024, 5, 14, 11, 30, 17, 987654321, berlin)

	if err := p.PublishMeasurement(m); err != nil {
		t.Fatalf("PublishMeasurement() error = %v, want nil", err)
	}

	var env envelope
	if err := json.Unmarshal(broker.payloads[0], &env); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got, want := env.Observation.DateTime, "2024-05-14T09:30:17Z"; got != want {
		t.Errorf("DateTime = %q, want %q (UTC, seconds, trailing Z)", got, want)
	}
}

func TestPublisher_Topic(t *testing.T) {
	p := NewPublisher(&fakeBroker{}, "Factory/ColorSorter/ConditionMonitoring", slog.New(slog.DiscardHandler))

	tests := []struct {
		kind sensor.Kind
		want string
	}{
		{kind: sensor.KindTemperature, want: "Factory/ColorSorter/ConditionMonitoring/Temperature"},
		{kind: sensor.KindBattery, want: "Factory/ColorSorter/ConditionMonitoring/Battery"},
		{kind: sensor.Kind("Dew Point"), want: "Factory/ColorSorter/ConditionMonitoring/DewPoint"},
		{kind: sensor.Kind(" Air \tQuality "), want: "Factory/ColorSorter/ConditionMonitoring/AirQuality"},
	}

	for _, tt := range tests {
		if got := p.Topic(tt.kind); got != tt.want {
			t.Errorf("Topic(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPublisher_BrokerFailure(t *testing.T) {
	cause := errors.New("connection reset")
	broker := &fakeBroker{err: cause}
	p := NewPublisher(broker, "root", slog.New(slog.DiscardHandler))

	err := p.PublishMeasurement(testMeasurement())
	if err == nil {
		t.Fatal("PublishMeasurement() error = nil, want PublishError")
	}

	var pubErr *PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("PublishMeasurement() error = %v (%T), want *PublishError", err, err)
	}
	if pubErr.Topic != "root/Temperature" {
		t.Errorf("PublishError.Topic = %q, want %q", pubErr.Topic, "root/Temperature")
	}
	if !errors.Is(err, cause) {
		t.Errorf("PublishError does not wrap the broker error: %v", err)
	}
}
