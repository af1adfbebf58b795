package sensor

import (
	"errors"
	"testing"
	"time"
)

func TestAssetID(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "default tag", addr: "98:07:2D:27:F1:86", want: "TI-SensorTag-27F186"},
		{name: "lowercase", addr: "aa:bb:cc:dd:ee:ff", want: "TI-SensorTag-ddeeff"},
		{name: "dash form", addr: "98-07-2d-27-f1-86", want: "TI-SensorTag-27f186"},
		{name: "no separators", addr: "98072D27F186", want: "TI-SensorTag-27F186"},
		{name: "short address", addr: "F1:86", want: "TI-SensorTag-F186"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssetID(tt.addr); got != tt.want {
				t.Errorf("AssetID(%q) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestBuildBatch(t *testing.T) {
	id := Identity{AssetID: "TI-SensorTag-27F186", LocationID: "Labor_ColorSorter_Umgebung"}
	regs := Registry()

	t0 := time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)
	t1 := t0.Add(3 * time.Second)
	samples := []RawSample{
		{Descriptor: regs[0], Data: []byte{0x00, 0x63, 0x00, 0x30}, CapturedAt: t0},
		{Descriptor: regs[1], Data: []byte{0x10, 0x64}, CapturedAt: t1},
	}

	batch, err := BuildBatch(samples, id)
	if err != nil {
		t.Fatalf("BuildBatch() error = %v, want nil", err)
	}
	if len(batch) != 3 {
		t.Fatalf("BuildBatch() returned %d measurements, want 3", len(batch))
	}

	want := []Measurement{
		{AssetID: id.AssetID, LocationID: id.LocationID, Kind: KindTemperature, Value: 23.81, Unit: UnitCelsius, CapturedAt: t0},
		{AssetID: id.AssetID, LocationID: id.LocationID, Kind: KindHumidity, Value: 18.75, Unit: UnitPercent, CapturedAt: t0},
		{AssetID: id.AssetID, LocationID: id.LocationID, Kind: KindIlluminance, Value: 2.00, Unit: UnitLux, CapturedAt: t1},
	}
	for i, m := range batch {
		if m != want[i] {
			t.Errorf("batch[%d] = %+v, want %+v", i, m, want[i])
		}
	}

	// Sibling channels of one physical read share a capture timestamp.
	if !batch[0].CapturedAt.Equal(batch[1].CapturedAt) {
		t.Errorf("temperature at %v, humidity at %v, want shared timestamp",
			batch[0].CapturedAt, batch[1].CapturedAt)
	}
}

func TestBuildBatch_AbortsOnDecodeFailure(t *testing.T) {
	regs := Registry()
	now := time.Now()
	samples := []RawSample{
		{Descriptor: regs[0], Data: []byte{0x00, 0x63, 0x00, 0x30}, CapturedAt: now},
		{Descriptor: regs[1], Data: []byte{0x10}, CapturedAt: now}, // one byte short
		{Descriptor: regs[3], Data: []byte{0x63}, CapturedAt: now},
	}

	batch, err := BuildBatch(samples, Identity{})
	if err == nil {
		t.Fatalf("BuildBatch() error = nil, want DecodeError")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("BuildBatch() error = %v (%T), want *DecodeError", err, err)
	}
	if decodeErr.Kind != KindIlluminance {
		t.Errorf("DecodeError.Kind = %q, want %q", decodeErr.Kind, KindIlluminance)
	}
	if batch != nil {
		t.Errorf("BuildBatch() = %d measurements, want none on decode failure", len(batch))
	}
}

func TestRegistry(t *testing.T) {
	regs := Registry()
	if len(regs) != 4 {
		t.Fatalf("Registry() has %d descriptors, want 4", len(regs))
	}

	wantOrder := [][]Kind{
		{KindTemperature, KindHumidity},
		{KindIlluminance},
		{KindPressure},
		{KindBattery},
	}
	for i, d := range regs {
		if len(d.Channels) != len(wantOrder[i]) {
			t.Fatalf("Registry()[%d] (%s) has %d channels, want %d", i, d.Name, len(d.Channels), len(wantOrder[i]))
		}
		for j, ch := range d.Channels {
			if ch.Kind != wantOrder[i][j] {
				t.Errorf("Registry()[%d].Channels[%d].Kind = %q, want %q", i, j, ch.Kind, wantOrder[i][j])
			}
			if ch.Decode == nil {
				t.Errorf("Registry()[%d] %s has nil decode", i, ch.Kind)
			}
		}
		if d.DataUUID == "" {
			t.Errorf("Registry()[%d] (%s) has empty data UUID", i, d.Name)
		}
		if d.ConfigUUID != "" && len(d.Activation) == 0 {
			t.Errorf("Registry()[%d] (%s) has a config characteristic but no activation command", i, d.Name)
		}
	}

	// The battery level characteristic is always live; there is nothing to
	// activate and nothing to wait for.
	battery := regs[3]
	if battery.ConfigUUID != "" || battery.Settle != 0 {
		t.Errorf("battery descriptor = config %q settle %v, want no activation step",
			battery.ConfigUUID, battery.Settle)
	}

	// Callers get their own copy.
	regs[0].Name = "mutated"
	if Registry()[0].Name == "mutated" {
		t.Error("Registry() returns an aliased slice")
	}
}
