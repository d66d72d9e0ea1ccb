// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

// Package woproto implements the SwitchBot BLE protocol: passive
// advertisement decoding, command key encoding, password wrapping and
// response parsing. The package is pure computation; all radio I/O
// lives elsewhere.
package woproto

import "time"

// GATT UUIDs for the SwitchBot communication service
const (
	ServiceUUID = "cba20d00-224d-11e6-9fb8-0002a5d5c51b"
	CommandUUID = "cba20002-224d-11e6-9fb8-0002a5d5c51b"
	NotifyUUID  = "cba20003-224d-11e6-9fb8-0002a5d5c51b"
)

// Device models as carried in the first service data byte (low 7 bits,
// read as an ASCII letter)
type Model byte

const (
	ModelUnknown Model = 0
	ModelBot     Model = 'H'
	ModelCurtain Model = 'c'
	ModelMeter   Model = 'T'
)

// Command keys. Keys are lowercase hex strings; the leading "57" marks
// an unauthenticated command, "571" a password-carrying one.
const (
	KeyPress   Key = "570100"
	KeyTurnOn  Key = "570101"
	KeyTurnOff Key = "570102"

	KeyCurtainOpen  Key = "570f450105ff00"
	KeyCurtainClose Key = "570f450105ff64"
	KeyCurtainStop  Key = "570f450100ff"

	KeyBasicInfo  Key = "5702"
	KeyExtSummary Key = "570f460401"
	KeyExtAdvance Key = "570f460402"
	KeyExtChain   Key = "570f468101"

	keySetModePrefix   = "5703"
	keyExtendedPrefix  = "570f"
	keyPositionPrefix  = "570f450105ff"
	keyLongPressSubCmd = "08"
	passwordPrefix     = "571"
)

// Protocol defaults
const (
	DefaultRetryCount  = 3
	DefaultRetryWait   = 1 * time.Second
	DefaultScanTimeout = 5 * time.Second
)

// Minimum service data lengths per model
const (
	minLenBot     = 5
	minLenCurtain = 5
	minLenMeter   = 6
)

// Name returns the human-readable model name.
func (m Model) Name() string {
	switch m {
	case ModelBot:
		return "Bot"
	case ModelCurtain:
		return "Curtain"
	case ModelMeter:
		return "Meter"
	default:
		return "Unknown"
	}
}
