// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"errors"
	"fmt"
	"math"
)

// ErrShortPayload is returned when the service data is too short for
// the model it announces.
var ErrShortPayload = errors.New("service data too short")

// Advertisement is the decoded form of one SwitchBot service data
// payload. Exactly one of Bot, Curtain or Meter is non-nil for the
// known models; all three are nil for ModelUnknown.
type Advertisement struct {
	Model     Model
	Encrypted bool

	Bot     *BotState
	Curtain *CurtainState
	Meter   *MeterState
}

// BotState is the passive state broadcast by a Bot.
type BotState struct {
	SwitchMode bool // true: on/off toggle mode, false: momentary press mode
	IsOn       bool // only meaningful in switch mode
	Battery    int  // percent
}

// CurtainState is the passive state broadcast by a Curtain.
type CurtainState struct {
	Calibrated  bool
	InMotion    bool
	Position    int // percent open, after optional reversal
	LightLevel  int // 0..15
	DeviceChain int
	Battery     int // percent
}

// MeterState is the passive state broadcast by a Meter.
type MeterState struct {
	TempC             float64
	TempF             float64
	FahrenheitDisplay bool
	Humidity          int // percent
	Battery           int // percent
}

// DecodeAdvertisement decodes one service data payload. The model byte
// is the low 7 bits of the first byte read as an ASCII letter; the high
// bit marks an encrypted (password-protected) device. Unrecognized
// model letters decode to ModelUnknown rather than failing, so scans
// can still count them. reverse flips curtain positions for devices
// mounted opening right-to-left, which is the factory default.
func DecodeAdvertisement(data []byte, reverse bool) (Advertisement, error) {
	if len(data) == 0 {
		return Advertisement{}, fmt.Errorf("decode advertisement: %w", ErrShortPayload)
	}

	adv := Advertisement{
		Model:     Model(data[0] & 0x7F),
		Encrypted: data[0]&0x80 != 0,
	}

	switch adv.Model {
	case ModelBot:
		if len(data) < minLenBot {
			return Advertisement{}, fmt.Errorf("decode bot advertisement: %d bytes: %w", len(data), ErrShortPayload)
		}
		adv.Bot = decodeBot(data)

	case ModelCurtain:
		if len(data) < minLenCurtain {
			return Advertisement{}, fmt.Errorf("decode curtain advertisement: %d bytes: %w", len(data), ErrShortPayload)
		}
		adv.Curtain = decodeCurtain(data, reverse)

	case ModelMeter:
		if len(data) < minLenMeter {
			return Advertisement{}, fmt.Errorf("decode meter advertisement: %d bytes: %w", len(data), ErrShortPayload)
		}
		adv.Meter = decodeMeter(data)

	default:
		adv.Model = ModelUnknown
	}

	return adv, nil
}

func decodeBot(data []byte) *BotState {
	s := &BotState{
		SwitchMode: data[1]&0x80 != 0,
		Battery:    int(data[2] & 0x7F),
	}
	// The on/off bit is inverted on the wire and only meaningful in
	// switch mode; press-mode Bots always report off.
	if s.SwitchMode {
		s.IsOn = data[1]&0x40 == 0
	}
	return s
}

func decodeCurtain(data []byte, reverse bool) *CurtainState {
	return &CurtainState{
		Calibrated:  data[1]&0x40 != 0,
		Battery:     int(data[2] & 0x7F),
		InMotion:    data[3]&0x80 != 0,
		Position:    orientPosition(clampPercent(int(data[3]&0x7F)), reverse),
		LightLevel:  int(data[4]>>4) & 0x0F,
		DeviceChain: int(data[4] & 0x07),
	}
}

func decodeMeter(data []byte) *MeterState {
	sign := -1.0
	if data[4]&0x80 != 0 {
		sign = 1.0
	}
	tempC := sign * (float64(data[4]&0x7F) + float64(data[3])/10)
	return &MeterState{
		TempC:             tempC,
		TempF:             math.Round((tempC*9/5+32)*10) / 10,
		FahrenheitDisplay: data[5]&0x80 != 0,
		Humidity:          int(data[5] & 0x7F),
		Battery:           int(data[2] & 0x7F),
	}
}

// clampPercent limits a raw position to the 0..100 range.
func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// orientPosition flips a clamped position for reverse-mounted curtains.
func orientPosition(pos int, reverse bool) int {
	if reverse {
		return 100 - pos
	}
	return pos
}
