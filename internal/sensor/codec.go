package sensor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Raw characteristic layouts (TI SensorTag CC2650):
// HDC1000 returns temperature and humidity as two little-endian uint16 in one
// 4-byte read; OPT3001 returns one big-endian uint16 with a 4-bit exponent and
// 12-bit mantissa; BMP280 returns 6 bytes where the pressure is a little-endian
// uint24 after a 3-byte compensation block; the battery level is one byte.
const (
	hdc1000Len = 4
	opt3001Len = 2
	bmp280Len  = 6
	batteryLen = 1
)

// DecodeError reports a raw payload whose length does not match the sensor's
// wire layout.
type DecodeError struct {
	Kind   Kind
	Length int
	Want   int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: payload is %d bytes, want %d", e.Kind, e.Length, e.Want)
}

// DecodeTemperature decodes the HDC1000 pair read into degrees Celsius.
// The temperature occupies the first little-endian uint16.
func DecodeTemperature(raw []byte) (float64, error) {
	if len(raw) != hdc1000Len {
		return 0, &DecodeError{Kind: KindTemperature, Length: len(raw), Want: hdc1000Len}
	}
	t := binary.LittleEndian.Uint16(raw[0:2])
	return round2(float64(t)/65536.0*165.0 - 40.0), nil
}

// DecodeHumidity decodes the HDC1000 pair read into percent relative humidity.
// The humidity occupies the second little-endian uint16; its low 2 bits are
// status flags and are masked off before scaling.
func DecodeHumidity(raw []byte) (float64, error) {
	if len(raw) != hdc1000Len {
		return 0, &DecodeError{Kind: KindHumidity, Length: len(raw), Want: hdc1000Len}
	}
	h := binary.LittleEndian.Uint16(raw[2:4]) &^ 0x0003
	return round2(float64(h) / 65536.0 * 100.0), nil
}

// DecodeIlluminance decodes the OPT3001 read into lux. The raw word packs a
// 4-bit exponent above a 12-bit mantissa: lux = mantissa * 0.01 * 2^exponent.
func DecodeIlluminance(raw []byte) (float64, error) {
	if len(raw) != opt3001Len {
		return 0, &DecodeError{Kind: KindIlluminance, Length: len(raw), Want: opt3001Len}
	}
	w := binary.BigEndian.Uint16(raw)
	exp := (w >> 12) & 0xF
	mant := w & 0x0FFF
	return round2(float64(mant) * 0.01 * float64(uint32(1)<<exp)), nil
}

// DecodePressure decodes the BMP280 read into hectopascal. Bytes 0..2 are the
// sensor's own temperature and are skipped; bytes 3..5 are the pressure as a
// little-endian uint24 in units of 1/100 hPa.
func DecodePressure(raw []byte) (float64, error) {
	if len(raw) != bmp280Len {
		return 0, &DecodeError{Kind: KindPressure, Length: len(raw), Want: bmp280Len}
	}
	p := uint32(raw[3]) | uint32(raw[4])<<8 | uint32(raw[5])<<16
	return round2(float64(p) / 100.0), nil
}

// DecodeBattery decodes the battery level characteristic, a single byte in
// percent.
func DecodeBattery(raw []byte) (float64, error) {
	if len(raw) != batteryLen {
		return 0, &DecodeError{Kind: KindBattery, Length: len(raw), Want: batteryLen}
	}
	return float64(raw[0]), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
