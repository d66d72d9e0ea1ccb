// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs
//
// Switchmote - SwitchBot BLE Controller
//
// A CLI tool for discovering, monitoring and controlling SwitchBot
// Bot, Curtain and Meter devices over Bluetooth Low Energy.

package main

import (
	"os"

	"github.com/quenby/switchmote/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
