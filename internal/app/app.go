package app

import (
	"context"
	"fmt"
	"log/slog"

	"sensortag-bridge/internal/acquire"
	"sensortag-bridge/internal/ble"
	"sensortag-bridge/internal/config"
	"sensortag-bridge/internal/mqtt"
	"sensortag-bridge/internal/sensor"
)

// Run wires the bridge together and drives it until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("initializing bridge",
		"device", cfg.DeviceAddr,
		"mqtt_broker", cfg.MQTTBroker,
		"mqtt_port", cfg.MQTTPort,
		"topic_root", cfg.TopicRoot,
		"poll_interval", cfg.PollInterval,
	)

	broker := mqtt.NewClient(cfg, slog.Default())
	if err := broker.Connect(ctx); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	defer broker.Disconnect()

	dialer, err := ble.NewDialer(cfg.BLEConnectTimeout)
	if err != nil {
		return fmt.Errorf("ble init: %w", err)
	}
	defer func() {
		if err := dialer.Close(); err != nil {
			slog.Warn("close hci device", "error", err)
		}
	}()

	policy := ble.Policy{
		DisconnectRetries: cfg.BLEDisconnectRetries,
		RetryDelay:        cfg.BLERetryDelay,
	}
	session := ble.NewSession(dialer, cfg.DeviceAddr, policy, slog.Default())
	publisher := mqtt.NewPublisher(broker, cfg.TopicRoot, slog.Default())

	loop := acquire.New(acquire.Options{
		Session:     session,
		Publisher:   publisher,
		Descriptors: sensor.Registry(),
		Identity: sensor.Identity{
			AssetID:    sensor.AssetID(cfg.DeviceAddr),
			LocationID: cfg.LocationID,
		},
		Interval: cfg.PollInterval,
		Logger:   slog.Default(),
	})

	return loop.Run(ctx)
}
