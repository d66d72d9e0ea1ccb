// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/switchmote"
)

var meterCmd = &cobra.Command{
	Use:   "meter <address>",
	Short: "Read a SwitchBot Meter",
	Long: `Read the current temperature, humidity and battery level of a Meter.

Meters are passive: the reading comes from the device's advertisement,
so no connection is made.

Exit codes:
  0 - Reading obtained
  1 - Device not heard during the scan window
  2 - Connection error`,
	Args: cobra.ExactArgs(1),
	RunE: runMeter,
}

func init() {
	rootCmd.AddCommand(meterCmd)
}

func runMeter(cmd *cobra.Command, args []string) error {
	addr := args[0]

	c, _, cleanup, err := OpenCentral()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer cleanup()

	meter := switchmote.NewMeter(c, addr)

	ctx, cancel := commandContext()
	defer cancel()

	if err := meter.Update(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Device not heard: %v\n", err)
		os.Exit(1)
	}

	tempC, _ := meter.Temperature()
	tempF, _ := meter.TemperatureF()
	humidity, _ := meter.Humidity()
	battery, _ := meter.Battery()

	fmt.Printf("Meter %s: %.1f°C (%.1f°F) humidity=%d%% battery=%d%%\n",
		addr, tempC, tempF, humidity, battery)
	return nil
}
