// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"fmt"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// Bot is a SwitchBot Bot: a motorized button presser that can also run
// as an on/off switch.
type Bot struct {
	device
	state *woproto.BotState
}

// NewBot creates a Bot facade for the device at addr.
func NewBot(c central.Central, addr string, opts ...Option) *Bot {
	return &Bot{device: newDevice(c, addr, opts...)}
}

// Press triggers one press in press mode.
func (b *Bot) Press(ctx context.Context) (bool, error) {
	return b.command(ctx, woproto.KeyPress, true)
}

// TurnOn switches the Bot on. In switch mode the arm moves to the on
// position; the device reports "no effect" when it is already there.
// Cached state is untouched: accessors reflect the last advertisement
// until the next Update.
func (b *Bot) TurnOn(ctx context.Context) (bool, error) {
	return b.command(ctx, woproto.KeyTurnOn, true)
}

// TurnOff switches the Bot off.
func (b *Bot) TurnOff(ctx context.Context) (bool, error) {
	return b.command(ctx, woproto.KeyTurnOff, true)
}

// SetSwitchMode configures press strength, switch mode and arm
// direction in one write.
func (b *Bot) SetSwitchMode(ctx context.Context, strength byte, switchMode, inverse bool) (bool, error) {
	return b.command(ctx, woproto.SwitchModeKey(strength, switchMode, inverse), false)
}

// SetLongPress configures the hold duration in seconds.
func (b *Bot) SetLongPress(ctx context.Context, seconds byte) (bool, error) {
	return b.command(ctx, woproto.LongPressKey(seconds), false)
}

// GetBasicInfo reads the settings page. A nil result with nil error
// means the device declined the request.
func (b *Bot) GetBasicInfo(ctx context.Context) (*woproto.BotSettings, error) {
	return settingsPage(ctx, &b.device, woproto.KeyBasicInfo, woproto.ParseBotSettings)
}

// Update refreshes the cached state from the device's advertisement.
func (b *Bot) Update(ctx context.Context) error {
	adv, err := b.findSelf(ctx)
	if err != nil {
		return err
	}
	if adv.Bot == nil {
		return fmt.Errorf("%s does not advertise as a Bot", b.addr)
	}
	b.state = adv.Bot
	return nil
}

// IsOn returns the cached on/off state. ok is false before the first
// Update.
func (b *Bot) IsOn() (on, ok bool) {
	if b.state == nil {
		return false, false
	}
	return b.state.IsOn, true
}

// SwitchMode returns the cached mode flag.
func (b *Bot) SwitchMode() (switchMode, ok bool) {
	if b.state == nil {
		return false, false
	}
	return b.state.SwitchMode, true
}

// Battery returns the cached battery percentage.
func (b *Bot) Battery() (battery int, ok bool) {
	if b.state == nil {
		return 0, false
	}
	return b.state.Battery, true
}
