// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package central

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"

	"github.com/quenby/switchmote/pkg/woproto"
)

var (
	serviceUUID = mustUUID(woproto.ServiceUUID)
	commandUUID = mustUUID(woproto.CommandUUID)
	notifyUUID  = mustUUID(woproto.NotifyUUID)
)

func mustUUID(s string) bluetooth.UUID {
	u, err := bluetooth.ParseUUID(s)
	if err != nil {
		panic(fmt.Sprintf("bad UUID constant %q: %v", s, err))
	}
	return u
}

// LocalCentral drives the host Bluetooth adapter.
type LocalCentral struct {
	mu      sync.Mutex
	adapter *bluetooth.Adapter

	enableOnce sync.Once
	enableErr  error

	// Addresses seen during scans, so Connect can reuse the stack's
	// own representation instead of re-parsing the MAC.
	seenMu sync.Mutex
	seen   map[string]bluetooth.Address
}

// NewLocalCentral wraps the default host adapter.
func NewLocalCentral() *LocalCentral {
	return &LocalCentral{
		adapter: bluetooth.DefaultAdapter,
		seen:    make(map[string]bluetooth.Address),
	}
}

func (c *LocalCentral) Lock()   { c.mu.Lock() }
func (c *LocalCentral) Unlock() { c.mu.Unlock() }

func (c *LocalCentral) enable() error {
	c.enableOnce.Do(func() {
		c.enableErr = c.adapter.Enable()
		if c.enableErr == nil {
			log.Debug().Msg("bluetooth adapter enabled")
		}
	})
	if c.enableErr != nil {
		return fmt.Errorf("enable bluetooth adapter: %w", c.enableErr)
	}
	return nil
}

// Scan runs a passive scan until ctx is done, reporting advertisements
// that carry SwitchBot service data.
func (c *LocalCentral) Scan(ctx context.Context, cb func(Advertisement)) error {
	if err := c.enable(); err != nil {
		return err
	}

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.adapter.StopScan()
		case <-stopped:
		}
	}()
	defer close(stopped)

	err := c.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		for _, sd := range result.AdvertisementPayload.ServiceData() {
			if sd.UUID != serviceUUID {
				continue
			}
			addr := strings.ToUpper(result.Address.String())
			c.seenMu.Lock()
			c.seen[addr] = result.Address
			c.seenMu.Unlock()

			cb(Advertisement{
				Addr:        addr,
				LocalName:   result.LocalName(),
				RSSI:        result.RSSI,
				ServiceData: sd.Data,
			})
		}
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// Connect establishes a GATT connection and resolves the SwitchBot
// characteristics.
func (c *LocalCentral) Connect(ctx context.Context, addr string) (Link, error) {
	if err := c.enable(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := c.resolveAddress(addr)
	if err != nil {
		return nil, err
	}

	params := bluetooth.ConnectionParams{}
	if deadline, ok := ctx.Deadline(); ok {
		params.ConnectionTimeout = bluetooth.NewDuration(time.Until(deadline))
	}

	log.Debug().Str("addr", addr).Msg("connecting")
	device, err := c.adapter.Connect(target, params)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}

	link, err := resolveLink(device)
	if err != nil {
		device.Disconnect()
		return nil, err
	}
	return link, nil
}

func (c *LocalCentral) resolveAddress(addr string) (bluetooth.Address, error) {
	c.seenMu.Lock()
	cached, ok := c.seen[strings.ToUpper(addr)]
	c.seenMu.Unlock()
	if ok {
		return cached, nil
	}

	mac, err := bluetooth.ParseMAC(strings.ToUpper(addr))
	if err != nil {
		return bluetooth.Address{}, fmt.Errorf("address %q: %w", addr, err)
	}
	var target bluetooth.Address
	target.Set(mac.String())
	return target, nil
}

// resolveLink walks the device's GATT table for the SwitchBot service.
func resolveLink(device bluetooth.Device) (*localLink, error) {
	services, err := device.DiscoverServices([]bluetooth.UUID{serviceUUID})
	if err != nil || len(services) == 0 {
		return nil, fmt.Errorf("communication service: %w", ErrNotFound)
	}

	chars, err := services[0].DiscoverCharacteristics(nil)
	if err != nil {
		return nil, fmt.Errorf("discover characteristics: %w", err)
	}

	link := &localLink{device: device}
	var haveCmd, haveNotify bool
	for _, ch := range chars {
		switch ch.UUID() {
		case commandUUID:
			link.cmd = ch
			haveCmd = true
		case notifyUUID:
			link.notify = ch
			haveNotify = true
		}
	}
	if !haveCmd || !haveNotify {
		return nil, fmt.Errorf("command/notify characteristics: %w", ErrNotFound)
	}
	return link, nil
}

type localLink struct {
	device bluetooth.Device
	cmd    bluetooth.DeviceCharacteristic
	notify bluetooth.DeviceCharacteristic
}

func (l *localLink) Subscribe(fn func([]byte)) error {
	err := l.notify.EnableNotifications(func(buf []byte) {
		// The stack reuses its buffer between callbacks.
		fn(append([]byte(nil), buf...))
	})
	if err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}
	return nil
}

func (l *localLink) Write(data []byte) error {
	if _, err := l.cmd.WriteWithoutResponse(data); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	return nil
}

func (l *localLink) Disconnect() error {
	return l.device.Disconnect()
}
