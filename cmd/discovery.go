// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/switchmote"
	"github.com/quenby/switchmote/pkg/woproto"
)

var scanTimeout int

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover SwitchBot devices via passive scan",
	Long: `Run one time-boxed passive scan and list every SwitchBot device heard.

Devices advertise continuously; the scan keeps the most recent
advertisement per address. Encrypted (password-protected) devices are
marked in the listing.

Examples:
  # Scan with the host adapter
  switchmote scan

  # Longer window through a remote gateway
  switchmote scan --bridge ws://gateway.local/ble --timeout 15

Exit codes:
  0 - At least one device found
  1 - No devices found
  2 - Connection error`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 5, "Scan window in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	c, connInfo, cleanup, err := OpenCentral()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer cleanup()

	fmt.Printf("Switchmote - Device Scan\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Window: %d seconds\n\n", scanTimeout)

	scanner := switchmote.NewScanner(c)
	scanner.Timeout = time.Duration(scanTimeout) * time.Second
	scanner.Reverse = !noReverse
	scanner.Stats = woproto.NewStatistics()

	ctx, cancel := commandContext()
	defer cancel()

	if err := scanner.Scan(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Scan error: %v\n", err)
		os.Exit(2)
	}

	devices := scanner.Devices()
	for _, d := range devices {
		fmt.Printf("%s  %4d dBm  %s\n", d.Addr, d.RSSI, woproto.FormatAdvertisement(d.Adv))
	}

	fmt.Printf("\n--- Scan summary ---\n")
	fmt.Printf("Devices found: %d (%d Bot, %d Curtain, %d Meter)\n",
		len(devices), len(scanner.Bots()), len(scanner.Curtains()), len(scanner.Meters()))

	if len(devices) == 0 {
		fmt.Printf("No devices heard. Check adapter power and device batteries.\n")
		os.Exit(1)
	}
	return nil
}
