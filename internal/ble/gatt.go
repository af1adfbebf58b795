package ble

import (
	"context"
	"fmt"

	"github.com/go-ble/ble"
)

// Client is one live GATT connection. Characteristics are addressed by UUID
// string; writes always request acknowledgment.
type Client interface {
	WriteCharacteristic(uuid string, value []byte) error
	ReadCharacteristic(uuid string) ([]byte, error)
	Disconnected() <-chan struct{}
	CancelConnection() error
}

// Dialer opens GATT connections by hardware address.
type Dialer interface {
	Dial(ctx context.Context, addr string) (Client, error)
	Close() error
}

type gattDialer struct {
	device ble.Device
}

func (d *gattDialer) Dial(ctx context.Context, addr string) (Client, error) {
	cln, err := d.device.Dial(ctx, ble.NewAddr(addr))
	if err != nil {
		return nil, err
	}

	// Discover everything up front; characteristic lookups are then local.
	profile, err := cln.DiscoverProfile(true)
	if err != nil {
		_ = cln.CancelConnection()
		return nil, fmt.Errorf("discover profile: %w", err)
	}

	return &gattClient{client: cln, profile: profile}, nil
}

func (d *gattDialer) Close() error {
	return d.device.Stop()
}

type gattClient struct {
	client  ble.Client
	profile *ble.Profile
}

func (c *gattClient) WriteCharacteristic(uuid string, value []byte) error {
	char, err := c.find(uuid)
	if err != nil {
		return err
	}
	return c.client.WriteCharacteristic(char, value, false)
}

func (c *gattClient) ReadCharacteristic(uuid string) ([]byte, error) {
	char, err := c.find(uuid)
	if err != nil {
		return nil, err
	}
	return c.client.ReadCharacteristic(char)
}

func (c *gattClient) Disconnected() <-chan struct{} {
	return c.client.Disconnected()
}

func (c *gattClient) CancelConnection() error {
	return c.client.CancelConnection()
}

func (c *gattClient) find(uuid string) (*ble.Characteristic, error) {
	target, err := ble.Parse(uuid)
	if err != nil {
		return nil, fmt.Errorf("parse uuid %q: %w", uuid, err)
	}
	for _, svc := range c.profile.Services {
		for _, char := range svc.Characteristics {
			if char.UUID.Equal(target) {
				return char, nil
			}
		}
	}
	return nil, fmt.Errorf("characteristic %s not found on device", uuid)
}
