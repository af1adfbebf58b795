package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sensortag-bridge/internal/app"
	"sensortag-bridge/internal/config"
	"sensortag-bridge/internal/logging"
	"syscall"
)

var version = "dev"
var appName = "sensortag-bridge"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// The tag's address may be overridden on the command line.
	if len(os.Args) > 1 {
		addr, err := config.ParseDeviceAddr(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "usage: %s [device-address]: %v\n", appName, err)
			os.Exit(1)
		}
		cfg.DeviceAddr = addr
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"app", appName,
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"device", cfg.DeviceAddr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run failed", "err", err)
		os.Exit(1)
	}

	slog.Info("shutting down")
}
