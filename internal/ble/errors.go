package ble

import (
	"errors"
	"fmt"
)

// ErrLinkLost marks errors caused by the peripheral dropping an established
// connection. The session retries the whole read sequence on these; everything
// else aborts the cycle immediately.
var ErrLinkLost = errors.New("link lost")

// ConnectionError means no link to the device could be established.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ble: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DisconnectError means the link dropped mid-sequence and the bounded retry
// was exhausted. Attempts counts the full read sequences that were started.
type DisconnectError struct {
	Addr     string
	Attempts int
	Err      error
}

func (e *DisconnectError) Error() string {
	return fmt.Sprintf("ble: device %s disconnected, gave up after %d attempts: %v", e.Addr, e.Attempts, e.Err)
}

func (e *DisconnectError) Unwrap() error {
	return e.Err
}
