package sensor

import "time"

// Kind identifies one measured quantity. Its value is also the sensor type
// code carried in published observations.
type Kind string

const (
	KindTemperature Kind = "Temperature"
	KindHumidity    Kind = "Humidity"
	KindIlluminance Kind = "Illuminance"
	KindPressure    Kind = "Pressure"
	KindBattery     Kind = "Battery"
)

// Measure unit codes per UN/ECE Recommendation 20.
const (
	UnitCelsius     = "CEL"
	UnitPercent     = "P1"
	UnitLux         = "LUX"
	UnitHectopascal = "A97"
)

// SensorTag CC2650 GATT characteristics. The TI sensors use the vendor base
// UUID f000xxxx-0451-4000-b000-000000000000; the battery level is the
// Bluetooth SIG characteristic 0x2A19.
const (
	humidityConfigUUID = "f000aa22-0451-4000-b000-000000000000"
	humidityDataUUID   = "f000aa21-0451-4000-b000-000000000000"

	luxConfigUUID = "f000aa72-0451-4000-b000-000000000000"
	luxDataUUID   = "f000aa71-0451-4000-b000-000000000000"

	baroConfigUUID = "f000aa42-0451-4000-b000-000000000000"
	baroDataUUID   = "f000aa41-0451-4000-b000-000000000000"

	batteryLevelUUID = "2a19"
)

// Channel is one measured quantity decoded from a data characteristic read.
// A read that carries several quantities (the HDC1000 pair) has one channel
// per quantity, all decoding the same raw buffer.
type Channel struct {
	Kind   Kind
	Unit   string
	Decode func(raw []byte) (float64, error)
}

// Descriptor defines how one physical sensor is activated and read.
// A descriptor with no ConfigUUID has no activation step: its data
// characteristic is always live and is read without a settle wait.
type Descriptor struct {
	Name       string
	ConfigUUID string
	DataUUID   string
	Activation []byte
	Settle     time.Duration
	Channels   []Channel
}

// Registry returns the sensors read each acquisition cycle, in read order.
// The slice is rebuilt on every call so callers cannot alias the table.
func Registry() []Descriptor {
	return []Descriptor{
		{
			Name:       "HDC1000",
			ConfigUUID: humidityConfigUUID,
			DataUUID:   humidityDataUUID,
			Activation: []byte{0x01},
			Settle:     1800 * time.Millisecond,
			Channels: []Channel{
				{Kind: KindTemperature, Unit: UnitCelsius, Decode: DecodeTemperature},
				{Kind: KindHumidity, Unit: UnitPercent, Decode: DecodeHumidity},
			},
		},
		{
			Name:       "OPT3001",
			ConfigUUID: luxConfigUUID,
			DataUUID:   luxDataUUID,
			Activation: []byte{0x01},
			Settle:     800 * time.Millisecond,
			Channels: []Channel{
				{Kind: KindIlluminance, Unit: UnitLux, Decode: DecodeIlluminance},
			},
		},
		{
			Name:       "BMP280",
			ConfigUUID: baroConfigUUID,
			DataUUID:   baroDataUUID,
			Activation: []byte{0x01},
			Settle:     time.Second,
			Channels: []Channel{
				{Kind: KindPressure, Unit: UnitHectopascal, Decode: DecodePressure},
			},
		},
		{
			Name:     "Battery",
			DataUUID: batteryLevelUUID,
			Channels: []Channel{
				{Kind: KindBattery, Unit: UnitPercent, Decode: DecodeBattery},
			},
		},
	}
}
