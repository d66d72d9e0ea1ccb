// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

// Package central abstracts the BLE central role behind a small
// interface so device logic never touches a radio stack directly.
// Two real implementations exist: LocalCentral over the host adapter
// and BridgeCentral over a websocket gateway; MockCentral serves tests.
package central

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a device or its SwitchBot service
// cannot be resolved.
var ErrNotFound = errors.New("device not found")

// ErrClosed is returned when the underlying transport has gone away.
var ErrClosed = errors.New("central closed")

// Advertisement is one observed SwitchBot advertisement: the sender,
// its signal strength and the raw service data payload.
type Advertisement struct {
	Addr        string
	LocalName   string
	RSSI        int16
	ServiceData []byte
}

// Central is a BLE adapter in the central role. The embedded Locker is
// adapter-scoped: callers hold it across a whole scan or command
// transaction so only one radio operation runs at a time.
type Central interface {
	sync.Locker

	// Scan runs a passive scan, invoking cb for every advertisement
	// that carries SwitchBot service data. It blocks until ctx is done
	// or the scan fails.
	Scan(ctx context.Context, cb func(Advertisement)) error

	// Connect establishes a GATT connection to addr and resolves the
	// SwitchBot command and notify characteristics.
	Connect(ctx context.Context, addr string) (Link, error)
}

// Link is one established GATT connection.
type Link interface {
	// Subscribe enables notifications on the notify characteristic.
	Subscribe(fn func([]byte)) error

	// Write sends a command key to the command characteristic without
	// response.
	Write(data []byte) error

	// Disconnect tears the connection down. Safe to call after errors.
	Disconnect() error
}
