// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"fmt"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// Curtain is a SwitchBot Curtain motor, possibly the head of a chain of
// two grouped devices.
type Curtain struct {
	device
	state *woproto.CurtainState
}

// NewCurtain creates a Curtain facade for the device at addr.
func NewCurtain(c central.Central, addr string, opts ...Option) *Curtain {
	return &Curtain{device: newDevice(c, addr, opts...)}
}

// Open runs the curtain fully open.
func (c *Curtain) Open(ctx context.Context) (bool, error) {
	return c.command(ctx, woproto.KeyCurtainOpen, false)
}

// Close runs the curtain fully closed.
func (c *Curtain) Close(ctx context.Context) (bool, error) {
	return c.command(ctx, woproto.KeyCurtainClose, false)
}

// Stop halts a moving curtain.
func (c *Curtain) Stop(ctx context.Context) (bool, error) {
	return c.command(ctx, woproto.KeyCurtainStop, false)
}

// SetPosition runs the curtain to a percentage open, 0..100. The value
// is clamped and oriented like advertised positions.
func (c *Curtain) SetPosition(ctx context.Context, position int) (bool, error) {
	return c.command(ctx, woproto.PositionKey(position, c.reverse), false)
}

// GetBasicInfo reads the settings page. A nil result with nil error
// means the device declined the request.
func (c *Curtain) GetBasicInfo(ctx context.Context) (*woproto.CurtainSettings, error) {
	return settingsPage(ctx, &c.device, woproto.KeyBasicInfo, func(d []byte) (*woproto.CurtainSettings, error) {
		return woproto.ParseCurtainSettings(d, c.reverse)
	})
}

// GetExtSummary reads the extended info summary page covering the
// device chain.
func (c *Curtain) GetExtSummary(ctx context.Context) (*woproto.CurtainExtSummary, error) {
	return settingsPage(ctx, &c.device, woproto.KeyExtSummary, woproto.ParseCurtainExtSummary)
}

// GetExtAdvance reads the extended info advanced page: per-device
// battery, firmware and charging state.
func (c *Curtain) GetExtAdvance(ctx context.Context) (*woproto.CurtainExtAdvance, error) {
	return settingsPage(ctx, &c.device, woproto.KeyExtAdvance, woproto.ParseCurtainExtAdvance)
}

// Update refreshes the cached state from the device's advertisement.
func (c *Curtain) Update(ctx context.Context) error {
	adv, err := c.findSelf(ctx)
	if err != nil {
		return err
	}
	if adv.Curtain == nil {
		return fmt.Errorf("%s does not advertise as a Curtain", c.addr)
	}
	c.state = adv.Curtain
	return nil
}

// Position returns the cached position as percent open. ok is false
// before the first Update.
func (c *Curtain) Position() (position int, ok bool) {
	if c.state == nil {
		return 0, false
	}
	return c.state.Position, true
}

// LightLevel returns the cached ambient light level, 0..15.
func (c *Curtain) LightLevel() (level int, ok bool) {
	if c.state == nil {
		return 0, false
	}
	return c.state.LightLevel, true
}

// IsCalibrated returns the cached calibration flag.
func (c *Curtain) IsCalibrated() (calibrated, ok bool) {
	if c.state == nil {
		return false, false
	}
	return c.state.Calibrated, true
}

// IsReversed reports the position orientation this facade applies.
func (c *Curtain) IsReversed() bool {
	return c.reverse
}

// Battery returns the cached battery percentage.
func (c *Curtain) Battery() (battery int, ok bool) {
	if c.state == nil {
		return 0, false
	}
	return c.state.Battery, true
}
