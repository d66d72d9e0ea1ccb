// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"errors"
	"fmt"
)

// ErrNoSettings is returned when a device answers a settings request
// with an empty, rejected or all-zero payload.
var ErrNoSettings = errors.New("device returned no settings")

// ErrBadSettings is returned when a settings payload is malformed.
var ErrBadSettings = errors.New("malformed settings payload")

// OpenDirection is the side a curtain opens toward.
type OpenDirection int

const (
	OpenLeftToRight OpenDirection = iota
	OpenRightToLeft
)

func (d OpenDirection) String() string {
	if d == OpenRightToLeft {
		return "right to left"
	}
	return "left to right"
}

// ChargeState is a curtain motor's solar/adapter charging state.
type ChargeState int

const (
	ChargeNotCharging ChargeState = iota
	ChargeByAdapter
	ChargeBySolar
	ChargeFull
	ChargeSolarNotCharging
	ChargeError
)

func chargeStateOf(b byte) ChargeState {
	switch b {
	case 0:
		return ChargeNotCharging
	case 1:
		return ChargeByAdapter
	case 2:
		return ChargeBySolar
	case 3, 4:
		return ChargeFull
	case 5:
		return ChargeSolarNotCharging
	default:
		return ChargeError
	}
}

func (c ChargeState) String() string {
	switch c {
	case ChargeNotCharging:
		return "not charging"
	case ChargeByAdapter:
		return "charging by adapter"
	case ChargeBySolar:
		return "charging by solar"
	case ChargeFull:
		return "fully charged"
	case ChargeSolarNotCharging:
		return "solar panel not charging"
	default:
		return "charging error"
	}
}

// BotSettings is the decoded basic-settings page of a Bot.
type BotSettings struct {
	Battery     int
	Firmware    float64
	Strength    int
	Timers      int
	SwitchMode  bool
	Inverse     bool
	HoldSeconds int
}

// CurtainSettings is the decoded basic-settings page of a Curtain.
type CurtainSettings struct {
	Battery       int
	Firmware      float64
	ChainLength   int
	OpenDirection OpenDirection
	TouchToOpen   bool
	Light         bool
	Fault         bool
	SolarPanel    bool
	Calibrated    bool
	InMotion      bool
	Position      int
	Timers        int
}

// CurtainDeviceSummary is one chained device's entry in the extended
// info summary page.
type CurtainDeviceSummary struct {
	OpenDirectionDefault bool
	TouchToOpen          bool
	Light                bool
	OpenDirection        OpenDirection
}

// CurtainExtSummary is the decoded extended-info summary page.
type CurtainExtSummary struct {
	Device0 CurtainDeviceSummary
	Device1 *CurtainDeviceSummary // nil for a single-device chain
}

// CurtainDeviceAdvance is one chained device's entry in the extended
// info advanced page.
type CurtainDeviceAdvance struct {
	Battery     int
	Firmware    float64
	ChargeState ChargeState
}

// CurtainExtAdvance is the decoded extended-info advanced page.
type CurtainExtAdvance struct {
	Device0 CurtainDeviceAdvance
	Device1 *CurtainDeviceAdvance
}

// emptySettings reports the three payloads a device uses to decline a
// settings request.
func emptySettings(d []byte) bool {
	if len(d) == 0 {
		return true
	}
	if len(d) == 1 && (d[0] == 0x07 || d[0] == 0x00) {
		return true
	}
	return false
}

// ParseBotSettings decodes the Bot basic-settings response.
func ParseBotSettings(d []byte) (*BotSettings, error) {
	if emptySettings(d) {
		return nil, ErrNoSettings
	}
	if len(d) < 11 {
		return nil, fmt.Errorf("bot settings: %d bytes: %w", len(d), ErrBadSettings)
	}
	return &BotSettings{
		Battery:     int(d[1]),
		Firmware:    float64(d[2]) / 10,
		Strength:    int(d[3]),
		Timers:      int(d[8]),
		SwitchMode:  d[9]&16 != 0,
		Inverse:     d[9]&1 != 0,
		HoldSeconds: int(d[10]),
	}, nil
}

// ParseCurtainSettings decodes the Curtain basic-settings response.
// reverse flips the reported position the same way advertisement
// decoding does.
func ParseCurtainSettings(d []byte, reverse bool) (*CurtainSettings, error) {
	if emptySettings(d) {
		return nil, ErrNoSettings
	}
	if len(d) < 8 {
		return nil, fmt.Errorf("curtain settings: %d bytes: %w", len(d), ErrBadSettings)
	}
	dir := OpenLeftToRight
	if d[4]&0x80 != 0 {
		dir = OpenRightToLeft
	}
	return &CurtainSettings{
		Battery:       int(d[1]),
		Firmware:      float64(d[2]) / 10,
		ChainLength:   int(d[3]),
		OpenDirection: dir,
		TouchToOpen:   d[4]&0x40 != 0,
		Light:         d[4]&0x20 != 0,
		Fault:         d[4]&0x08 != 0,
		SolarPanel:    d[5]&0x08 != 0,
		Calibrated:    d[5]&0x04 != 0,
		InMotion:      d[5]&0x43 != 0,
		Position:      orientPosition(clampPercent(int(d[6])), reverse),
		Timers:        int(d[7]),
	}, nil
}

// ParseCurtainExtSummary decodes the extended-info summary page. The
// first byte must be 1 or the page is invalid.
func ParseCurtainExtSummary(d []byte) (*CurtainExtSummary, error) {
	if emptySettings(d) {
		return nil, ErrNoSettings
	}
	if len(d) < 3 || d[0] != 1 {
		return nil, fmt.Errorf("curtain ext summary: %w", ErrBadSettings)
	}
	sum := &CurtainExtSummary{Device0: curtainSummaryByte(d[1])}
	if d[2] != 0 {
		// The vendor app decodes the second device from the first
		// device's byte as well, and only there tests the direction bit
		// directly; kept for parity with its output.
		dev1 := curtainSummaryByte(d[1])
		dev1.OpenDirection = OpenRightToLeft
		if d[1]&0x10 != 0 {
			dev1.OpenDirection = OpenLeftToRight
		}
		sum.Device1 = &dev1
	}
	return sum, nil
}

func curtainSummaryByte(b byte) CurtainDeviceSummary {
	s := CurtainDeviceSummary{
		OpenDirectionDefault: b&0x80 == 0,
		TouchToOpen:          b&0x40 != 0,
		Light:                b&0x20 != 0,
		OpenDirection:        OpenRightToLeft,
	}
	// The vendor app compares the masked direction bit against 1, which
	// can never match; reproduced so both sides report the same value.
	if b&0x10 == 1 {
		s.OpenDirection = OpenLeftToRight
	}
	return s
}

// ParseCurtainExtAdvance decodes the extended-info advanced page.
func ParseCurtainExtAdvance(d []byte) (*CurtainExtAdvance, error) {
	if emptySettings(d) {
		return nil, ErrNoSettings
	}
	if len(d) < 4 {
		return nil, fmt.Errorf("curtain ext advance: %d bytes: %w", len(d), ErrBadSettings)
	}
	adv := &CurtainExtAdvance{
		Device0: CurtainDeviceAdvance{
			Battery:     int(d[1]),
			Firmware:    float64(d[2]) / 10,
			ChargeState: chargeStateOf(d[3]),
		},
	}
	if len(d) >= 7 && d[4] != 0 {
		adv.Device1 = &CurtainDeviceAdvance{
			Battery:  int(d[4]),
			Firmware: float64(d[5]) / 10,
		}
		// The vendor app stores the second device's charge state back
		// into the first entry; reproduced for parity.
		adv.Device0.ChargeState = chargeStateOf(d[6])
	}
	return adv, nil
}
