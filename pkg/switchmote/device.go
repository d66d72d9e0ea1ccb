// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// Option configures a device facade.
type Option func(*device)

// WithPassword sets the device password; command keys are rewritten
// into their authenticated form before each write.
func WithPassword(password string) Option {
	return func(d *device) { d.passcode = woproto.NewPasscode(password) }
}

// WithReverse controls curtain position orientation. Curtains are
// reversed by default, matching the factory mount.
func WithReverse(reverse bool) Option {
	return func(d *device) { d.reverse = reverse }
}

// WithRetries overrides the transaction retry count.
func WithRetries(retries int) Option {
	return func(d *device) { d.engine.Retries = retries }
}

// WithRetryWait overrides the pause between transaction attempts.
func WithRetryWait(wait time.Duration) Option {
	return func(d *device) { d.engine.RetryWait = wait }
}

// WithScanTimeout overrides the passive scan window used by Update.
func WithScanTimeout(timeout time.Duration) Option {
	return func(d *device) { d.scanTimeout = timeout }
}

// device carries the identity and plumbing shared by all facades.
// Cached state lives in the concrete facades and changes only through
// Update or an explicit command; accessors never touch the radio.
type device struct {
	addr        string
	passcode    woproto.Passcode
	reverse     bool
	scanTimeout time.Duration
	engine      *Engine
}

func newDevice(c central.Central, addr string, opts ...Option) device {
	d := device{
		addr:        addr,
		reverse:     true,
		scanTimeout: woproto.DefaultScanTimeout,
		engine:      NewEngine(c),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Address returns the device's BLE address.
func (d *device) Address() string {
	return d.addr
}

func (d *device) exchange(ctx context.Context, key woproto.Key) ([]byte, error) {
	return d.engine.Exchange(ctx, d.addr, d.passcode.Apply(key))
}

// command runs a mutating operation and reduces the response to a
// success flag. allowNotApplicable accepts the device's "acknowledged
// but nothing to do" status, which Bot actions report when e.g. turning
// on an already-on switch.
func (d *device) command(ctx context.Context, key woproto.Key, allowNotApplicable bool) (bool, error) {
	resp, err := d.exchange(ctx, key)
	if err != nil {
		return false, err
	}

	switch outcome := woproto.OutcomeOf(resp); outcome {
	case woproto.OutcomeSuccess:
		return true, nil
	case woproto.OutcomeNotApplicable:
		if allowNotApplicable {
			log.Warn().Str("addr", d.addr).Msg("command acknowledged but had no effect")
			return true, nil
		}
		return false, nil
	case woproto.OutcomePasswordRequired, woproto.OutcomePasswordIncorrect:
		log.Error().Str("addr", d.addr).Stringer("outcome", outcome).
			Msg("device rejected command")
		return false, nil
	default:
		return false, nil
	}
}

// settingsPage requests a settings page and hands the payload to parse.
// A declined request (ErrNoSettings) is reported as absence, not error.
func settingsPage[T any](ctx context.Context, d *device, key woproto.Key, parse func([]byte) (*T, error)) (*T, error) {
	resp, err := d.exchange(ctx, key)
	if err != nil {
		return nil, err
	}
	page, err := parse(resp)
	if errors.Is(err, woproto.ErrNoSettings) {
		return nil, nil
	}
	return page, err
}

// findSelf scans for this device's current advertisement.
func (d *device) findSelf(ctx context.Context) (woproto.Advertisement, error) {
	scanner := NewScanner(d.engine.Central)
	scanner.Timeout = d.scanTimeout
	scanner.Reverse = d.reverse

	if err := scanner.Scan(ctx); err != nil {
		return woproto.Advertisement{}, err
	}
	found, ok := scanner.ByAddress(d.addr)
	if !ok {
		return woproto.Advertisement{}, central.ErrNotFound
	}
	return found.Adv, nil
}
