package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	DeviceAddr   string
	LocationID   string
	PollInterval time.Duration

	BLEConnectTimeout    time.Duration
	BLEDisconnectRetries int
	BLERetryDelay        time.Duration

	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	TopicRoot    string
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	logLevelStr := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if logLevelStr == "" {
		logLevelStr = "info"
	}
	level, err := parseLogLevel(logLevelStr)
	if err != nil {
		return Config{}, err
	}

	deviceAddrStr := strings.TrimSpace(os.Getenv("DEVICE_ADDRESS"))
	if deviceAddrStr == "" {
		deviceAddrStr = "98:07:2D:27:F1:86"
	}
	deviceAddr, err := ParseDeviceAddr(deviceAddrStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DEVICE_ADDRESS: %w", err)
	}

	locationID := strings.TrimSpace(os.Getenv("LOCATION_ID"))
	if locationID == "" {
		locationID = "Labor_ColorSorter_Umgebung"
	}

	pollInterval, err := durationEnv("SENSOR_POLL_INTERVAL", "60s")
	if err != nil {
		return Config{}, err
	}
	if pollInterval <= 0 {
		return Config{}, fmt.Errorf("SENSOR_POLL_INTERVAL must be positive, got %v", pollInterval)
	}

	bleConnectTimeout, err := durationEnv("BLE_CONNECT_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	if bleConnectTimeout <= 0 {
		return Config{}, fmt.Errorf("BLE_CONNECT_TIMEOUT must be positive, got %v", bleConnectTimeout)
	}

	bleRetriesStr := strings.TrimSpace(os.Getenv("BLE_DISCONNECT_RETRIES"))
	if bleRetriesStr == "" {
		bleRetriesStr = "1"
	}
	bleRetries, err := strconv.Atoi(bleRetriesStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid BLE_DISCONNECT_RETRIES %q: %w", bleRetriesStr, err)
	}
	if bleRetries < 0 {
		return Config{}, fmt.Errorf("BLE_DISCONNECT_RETRIES must not be negative, got %d", bleRetries)
	}

	bleRetryDelay, err := durationEnv("BLE_RETRY_DELAY", "1s")
	if err != nil {
		return Config{}, err
	}
	if bleRetryDelay < 0 {
		return Config{}, fmt.Errorf("BLE_RETRY_DELAY must not be negative, got %v", bleRetryDelay)
	}

	mqttBroker := strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	if mqttBroker == "" {
		mqttBroker = "localhost"
	}

	mqttPortStr := strings.TrimSpace(os.Getenv("MQTT_PORT"))
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}
	if mqttPort <= 0 || mqttPort > 65535 {
		return Config{}, fmt.Errorf("MQTT_PORT out of range: %d", mqttPort)
	}

	mqttClientID := strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID"))
	if mqttClientID == "" {
		mqttClientID = "colorsorter-sensor-01"
	}

	topicRoot := strings.TrimSpace(os.Getenv("MQTT_TOPIC_ROOT"))
	if topicRoot == "" {
		topicRoot = "Factory/ColorSorter/ConditionMonitoring"
	}
	topicRoot = strings.TrimRight(topicRoot, "/")

	return Config{
		AppEnv:               appEnv,
		LogLevel:             level,
		DeviceAddr:           deviceAddr,
		LocationID:           locationID,
		PollInterval:         pollInterval,
		BLEConnectTimeout:    bleConnectTimeout,
		BLEDisconnectRetries: bleRetries,
		BLERetryDelay:        bleRetryDelay,
		MQTTBroker:           mqttBroker,
		MQTTPort:             mqttPort,
		MQTTClientID:         mqttClientID,
		TopicRoot:            topicRoot,
	}, nil
}

// ParseDeviceAddr validates a BLE hardware address. The command line may
// override the configured address, so validation is shared.
func ParseDeviceAddr(s string) (string, error) {
	addr := strings.TrimSpace(s)
	if _, err := net.ParseMAC(addr); err != nil {
		return "", fmt.Errorf("invalid device address %q", addr)
	}
	return addr, nil
}

func durationEnv(name, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		raw = fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
