// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"fmt"
	"hash/crc32"
)

// Passcode is the obfuscation token derived from a device password.
// The zero value means "no password set".
type Passcode struct {
	token string
}

// NewPasscode derives the token from a cleartext password: the IEEE
// CRC-32 of the password bytes as 8 lowercase hex digits. An empty
// password yields the zero Passcode.
func NewPasscode(password string) Passcode {
	if password == "" {
		return Passcode{}
	}
	return Passcode{token: fmt.Sprintf("%08x", crc32.ChecksumIEEE([]byte(password)))}
}

// IsSet reports whether a password was configured.
func (p Passcode) IsSet() bool {
	return p.token != ""
}

// Token returns the 8-digit hex token, or "" when unset.
func (p Passcode) Token() string {
	return p.token
}

// Apply rewrites a command key into its authenticated form:
// "57" + action nibble becomes "571" + action nibble + token, then the
// remainder of the key follows. With no password set the key passes
// through unchanged. Keys shorter than the "57" + action + mode header
// are returned as-is.
func (p Passcode) Apply(key Key) Key {
	if !p.IsSet() || len(key) < 4 {
		return key
	}
	return Key(passwordPrefix + string(key[3]) + p.token + string(key[4:]))
}
