package sensor

import (
	"fmt"
	"strings"
	"time"
)

// RawSample is one data characteristic read, captured mid-cycle and decoded
// immediately. It is never persisted.
type RawSample struct {
	Descriptor Descriptor
	Data       []byte
	CapturedAt time.Time
}

// Identity tags measurements with the device and site they came from.
type Identity struct {
	AssetID    string
	LocationID string
}

// Measurement is one decoded physical quantity, ready to publish.
type Measurement struct {
	AssetID    string
	LocationID string
	Kind       Kind
	Value      float64
	Unit       string
	CapturedAt time.Time
}

// AssetID derives the stable asset identifier from the tag's hardware
// address: "TI-SensorTag-" plus the last six hex digits of the address,
// separators stripped.
func AssetID(addr string) string {
	hex := strings.NewReplacer(":", "", "-", "").Replace(addr)
	if len(hex) > 6 {
		hex = hex[len(hex)-6:]
	}
	return "TI-SensorTag-" + hex
}

// BuildBatch decodes an ordered sample sequence into measurements. Channels of
// one sample share that sample's capture timestamp. Any decode failure fails
// the whole batch: a malformed payload means the read sequence itself is not
// trustworthy, so no partial batch is emitted.
func BuildBatch(samples []RawSample, id Identity) ([]Measurement, error) {
	batch := make([]Measurement, 0, len(samples))
	for _, s := range samples {
		for _, ch := range s.Descriptor.Channels {
			v, err := ch.Decode(s.Data)
			if err != nil {
				return nil, fmt.Errorf("sample from %s: %w", s.Descriptor.Name, err)
			}
			batch = append(batch, Measurement{
				AssetID:    id.AssetID,
				LocationID: id.LocationID,
				Kind:       ch.Kind,
				Value:      v,
				Unit:       ch.Unit,
				CapturedAt: s.CapturedAt,
			})
		}
	}
	return batch, nil
}
