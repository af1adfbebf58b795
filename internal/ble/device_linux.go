package ble

import (
	"fmt"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// NewDialer opens the default HCI device. The caller owns it and must Close
// it; Linux allows only one open handle per adapter.
func NewDialer(dialTimeout time.Duration) (Dialer, error) {
	device, err := linux.NewDevice(ble.OptDialerTimeout(dialTimeout))
	if err != nil {
		return nil, fmt.Errorf("open hci device: %w", err)
	}
	return &gattDialer{device: device}, nil
}
