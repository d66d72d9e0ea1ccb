// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

var monitorShowAll bool

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch SwitchBot advertisements live",
	Long: `Run an open-ended passive scan and display every SwitchBot device
heard in a live terminal UI: a device table with the latest advertised
state, scan statistics and an event log.

By default only newly discovered devices are logged. Use --show-all to
log every advertisement.

Press 'q' to quit.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().BoolVar(&monitorShowAll, "show-all", false, "Log every advertisement (not just new devices)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	c, connInfo, cleanup, err := OpenCentral()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer cleanup()

	m := initialMonitorModel(connInfo, monitorShowAll)
	p := tea.NewProgram(m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scan feeder goroutine. Holds the adapter for the monitor's
	// lifetime; the scan ends when the TUI quits and ctx is cancelled.
	go func() {
		c.Lock()
		defer c.Unlock()

		err := c.Scan(ctx, func(found central.Advertisement) {
			adv, decodeErr := woproto.DecodeAdvertisement(found.ServiceData, !noReverse)
			p.Send(advertisementMsg{
				addr:      found.Addr,
				rssi:      found.RSSI,
				adv:       adv,
				decodeErr: decodeErr,
			})
		})
		if err != nil && ctx.Err() == nil {
			p.Send(scanErrMsg{err: err})
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}

	return nil
}
