// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"bytes"
	"strings"
	"testing"
)

// ============================================================
// Command Key Tests
// ============================================================

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected []byte
	}{
		{name: "press", key: KeyPress, expected: []byte{0x57, 0x01, 0x00}},
		{name: "turn on", key: KeyTurnOn, expected: []byte{0x57, 0x01, 0x01}},
		{name: "turn off", key: KeyTurnOff, expected: []byte{0x57, 0x01, 0x02}},
		{name: "basic info", key: KeyBasicInfo, expected: []byte{0x57, 0x02}},
		{name: "curtain open", key: KeyCurtainOpen, expected: []byte{0x57, 0x0f, 0x45, 0x01, 0x05, 0xff, 0x00}},
		{name: "curtain close", key: KeyCurtainClose, expected: []byte{0x57, 0x0f, 0x45, 0x01, 0x05, 0xff, 0x64}},
		{name: "curtain stop", key: KeyCurtainStop, expected: []byte{0x57, 0x0f, 0x45, 0x01, 0x00, 0xff}},
		{name: "ext summary", key: KeyExtSummary, expected: []byte{0x57, 0x0f, 0x46, 0x04, 0x01}},
		{name: "ext advance", key: KeyExtAdvance, expected: []byte{0x57, 0x0f, 0x46, 0x04, 0x02}},
		{name: "ext chain", key: KeyExtChain, expected: []byte{0x57, 0x0f, 0x46, 0x81, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.key.Bytes()
			if err != nil {
				t.Fatalf("Bytes error: %v", err)
			}
			if !bytes.Equal(b, tt.expected) {
				t.Errorf("Expected % x, got % x", tt.expected, b)
			}
		})
	}
}

func TestKeyBytes_Invalid(t *testing.T) {
	if _, err := Key("57zz").Bytes(); err == nil {
		t.Error("Expected error for non-hex key")
	}
	if _, err := Key("570").Bytes(); err == nil {
		t.Error("Expected error for odd-length key")
	}
}

func TestPositionKey(t *testing.T) {
	tests := []struct {
		name     string
		position int
		reverse  bool
		expected Key
	}{
		{name: "fully open reversed", position: 100, reverse: true, expected: "570f450105ff00"},
		{name: "fully closed reversed", position: 0, reverse: true, expected: "570f450105ff64"},
		{name: "half", position: 50, reverse: true, expected: "570f450105ff32"},
		{name: "quarter not reversed", position: 25, reverse: false, expected: "570f450105ff19"},
		{name: "clamped high", position: 250, reverse: false, expected: "570f450105ff64"},
		{name: "clamped low", position: -5, reverse: false, expected: "570f450105ff00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PositionKey(tt.position, tt.reverse); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPositionKey_MatchesFixedKeys(t *testing.T) {
	// Endpoint positions reproduce the fixed open/close keys
	if PositionKey(100, true) != KeyCurtainOpen {
		t.Error("Position 100 reversed should equal the open key")
	}
	if PositionKey(0, true) != KeyCurtainClose {
		t.Error("Position 0 reversed should equal the close key")
	}
}

func TestSwitchModeKey(t *testing.T) {
	tests := []struct {
		name       string
		strength   byte
		switchMode bool
		inverse    bool
		expected   Key
	}{
		{name: "press mode", strength: 100, expected: "57036400"},
		{name: "switch mode", strength: 100, switchMode: true, expected: "57036410"},
		{name: "switch inverse", strength: 50, switchMode: true, inverse: true, expected: "57033211"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SwitchModeKey(tt.strength, tt.switchMode, tt.inverse); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLongPressKey(t *testing.T) {
	if got := LongPressKey(3); got != "570f0803" {
		t.Errorf("Expected 570f0803, got %s", got)
	}
	if got := LongPressKey(0); got != "570f0800" {
		t.Errorf("Expected 570f0800, got %s", got)
	}
}

// ============================================================
// Passcode Tests
// ============================================================

func TestPasscode_Empty(t *testing.T) {
	p := NewPasscode("")
	if p.IsSet() {
		t.Error("Empty password should leave the passcode unset")
	}
	if got := p.Apply(KeyPress); got != KeyPress {
		t.Errorf("Unset passcode must not rewrite keys: got %s", got)
	}
}

func TestPasscode_Token(t *testing.T) {
	// IEEE CRC-32 of "password" is 0x35c246d5
	p := NewPasscode("password")
	if !p.IsSet() {
		t.Fatal("Expected passcode to be set")
	}
	if p.Token() != "35c246d5" {
		t.Errorf("Token: expected 35c246d5, got %s", p.Token())
	}
}

func TestPasscode_Apply(t *testing.T) {
	p := NewPasscode("password")

	tests := []struct {
		name     string
		key      Key
		expected Key
	}{
		{name: "press", key: KeyPress, expected: "571135c246d500"},
		{name: "turn on", key: KeyTurnOn, expected: "571135c246d501"},
		{name: "basic info", key: KeyBasicInfo, expected: "571235c246d5"},
		{name: "curtain open", key: KeyCurtainOpen, expected: "571f35c246d5450105ff00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Apply(tt.key)
			if got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestPasscode_ApplyShape(t *testing.T) {
	p := NewPasscode("hunter2")
	got := string(p.Apply(KeyTurnOn))

	if !strings.HasPrefix(got, "571") {
		t.Errorf("Authenticated key should start with 571, got %s", got)
	}
	// "571" + action nibble + 8 token digits + original suffix
	if len(got) != 3+1+8+len("01") {
		t.Errorf("Unexpected key length %d: %s", len(got), got)
	}
	if got[3] != '1' {
		t.Errorf("Action nibble should be preserved, got %c", got[3])
	}
	if !strings.HasSuffix(got, "01") {
		t.Errorf("Key suffix should be preserved, got %s", got)
	}
}
