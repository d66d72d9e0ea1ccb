// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"fmt"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// Meter is a SwitchBot temperature/humidity sensor. It is read purely
// from its advertisements; there are no commands to send.
type Meter struct {
	device
	state *woproto.MeterState
}

// NewMeter creates a Meter facade for the device at addr.
func NewMeter(c central.Central, addr string, opts ...Option) *Meter {
	return &Meter{device: newDevice(c, addr, opts...)}
}

// Update refreshes the cached reading from the device's advertisement.
func (m *Meter) Update(ctx context.Context) error {
	adv, err := m.findSelf(ctx)
	if err != nil {
		return err
	}
	if adv.Meter == nil {
		return fmt.Errorf("%s does not advertise as a Meter", m.addr)
	}
	m.state = adv.Meter
	return nil
}

// Temperature returns the cached reading in Celsius. ok is false
// before the first Update.
func (m *Meter) Temperature() (tempC float64, ok bool) {
	if m.state == nil {
		return 0, false
	}
	return m.state.TempC, true
}

// TemperatureF returns the cached reading in Fahrenheit.
func (m *Meter) TemperatureF() (tempF float64, ok bool) {
	if m.state == nil {
		return 0, false
	}
	return m.state.TempF, true
}

// Humidity returns the cached relative humidity percentage.
func (m *Meter) Humidity() (humidity int, ok bool) {
	if m.state == nil {
		return 0, false
	}
	return m.state.Humidity, true
}

// Battery returns the cached battery percentage.
func (m *Meter) Battery() (battery int, ok bool) {
	if m.state == nil {
		return 0, false
	}
	return m.state.Battery, true
}
