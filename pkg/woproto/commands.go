// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"encoding/hex"
	"fmt"
)

// Key is a command for the SwitchBot command characteristic, held as a
// lowercase hex string until write time.
type Key string

// Bytes converts the key to its wire form.
func (k Key) Bytes() ([]byte, error) {
	b, err := hex.DecodeString(string(k))
	if err != nil {
		return nil, fmt.Errorf("command key %q: %w", k, err)
	}
	return b, nil
}

// PositionKey builds the curtain run-to-position command. The target is
// clamped to 0..100 and flipped for reverse-mounted devices, matching
// how advertised positions are read back.
func PositionKey(position int, reverse bool) Key {
	pos := orientPosition(clampPercent(position), reverse)
	return Key(fmt.Sprintf("%s%02x", keyPositionPrefix, pos))
}

// SwitchModeKey builds the Bot mode configuration command. strength is
// the press strength, switchMode selects on/off toggle behavior and
// inverse flips the arm direction.
func SwitchModeKey(strength byte, switchMode, inverse bool) Key {
	return Key(fmt.Sprintf("%s%02x%s%s",
		keySetModePrefix, strength, hexBit(switchMode), hexBit(inverse)))
}

// LongPressKey builds the Bot hold-duration configuration command.
func LongPressKey(seconds byte) Key {
	return Key(fmt.Sprintf("%s%s%02x", keyExtendedPrefix, keyLongPressSubCmd, seconds))
}

func hexBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
