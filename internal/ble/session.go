package ble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sensortag-bridge/internal/sensor"
)

// Policy bounds the whole-sequence retry applied when an established link
// drops mid-cycle.
type Policy struct {
	DisconnectRetries int
	RetryDelay        time.Duration
}

// Session produces one ordered set of raw samples per acquisition cycle from
// a single device. It holds at most one live connection at a time and always
// releases it before returning, on every exit path.
type Session struct {
	dialer Dialer
	addr   string
	policy Policy
	logger *slog.Logger
}

func NewSession(dialer Dialer, addr string, policy Policy, logger *slog.Logger) *Session {
	return &Session{
		dialer: dialer,
		addr:   addr,
		policy: policy,
		logger: logger,
	}
}

// ReadAll runs the activate/settle/read protocol over every descriptor in
// order and returns one raw sample per descriptor. A lost link invalidates
// partial progress, so the whole sequence restarts from a fresh connection,
// at most Policy.DisconnectRetries times. Failure to establish a connection
// is never retried within the cycle.
func (s *Session) ReadAll(ctx context.Context, descs []sensor.Descriptor) ([]sensor.RawSample, error) {
	attempts := 0
	for {
		attempts++
		samples, err := s.readSequence(ctx, descs)
		if err == nil {
			return samples, nil
		}
		if !errors.Is(err, ErrLinkLost) {
			return nil, err
		}
		if attempts > s.policy.DisconnectRetries {
			return nil, &DisconnectError{Addr: s.addr, Attempts: attempts, Err: err}
		}

		s.logger.Warn("link lost, restarting read sequence",
			"device", s.addr,
			"attempt", attempts,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.policy.RetryDelay):
		}
	}
}

func (s *Session) readSequence(ctx context.Context, descs []sensor.Descriptor) ([]sensor.RawSample, error) {
	client, err := s.dialer.Dial(ctx, s.addr)
	if err != nil {
		return nil, &ConnectionError{Addr: s.addr, Err: err}
	}
	defer func() {
		if cerr := client.CancelConnection(); cerr != nil {
			s.logger.Debug("release connection", "device", s.addr, "error", cerr)
		}
	}()

	samples := make([]sensor.RawSample, 0, len(descs))
	for _, d := range descs {
		raw, err := s.readSensor(ctx, client, d)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sensor.RawSample{
			Descriptor: d,
			Data:       raw,
			CapturedAt: time.Now().UTC(),
		})
	}
	return samples, nil
}

// readSensor activates one sensor, waits out its settle delay, then reads its
// data characteristic. Descriptors without a config characteristic are read
// directly.
func (s *Session) readSensor(ctx context.Context, client Client, d sensor.Descriptor) ([]byte, error) {
	if d.ConfigUUID != "" {
		if err := client.WriteCharacteristic(d.ConfigUUID, d.Activation); err != nil {
			return nil, markLost(client, fmt.Errorf("activate %s: %w", d.Name, err))
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-client.Disconnected():
			return nil, fmt.Errorf("settle %s: %w", d.Name, ErrLinkLost)
		case <-time.After(d.Settle):
		}
	}

	raw, err := client.ReadCharacteristic(d.DataUUID)
	if err != nil {
		return nil, markLost(client, fmt.Errorf("read %s: %w", d.Name, err))
	}
	s.logger.Debug("sensor read", "sensor", d.Name, "raw", fmt.Sprintf("% x", raw))
	return raw, nil
}

// markLost tags err as a link loss when the client's disconnect channel has
// fired; other failures pass through unchanged.
func markLost(client Client, err error) error {
	select {
	case <-client.Disconnected():
		return fmt.Errorf("%v: %w", err, ErrLinkLost)
	default:
		return err
	}
}
