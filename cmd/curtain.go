// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/switchmote"
	"github.com/quenby/switchmote/pkg/woproto"
)

var curtainCmd = &cobra.Command{
	Use:   "curtain <address> <open|close|stop|position|info|ext|status>",
	Short: "Control a SwitchBot Curtain",
	Long: `Send a command to a Curtain.

Actions:
  open          Run fully open
  close         Run fully closed
  stop          Halt a moving curtain
  position <n>  Run to n percent open (0-100)
  info          Read the settings page
  ext           Read the extended info pages (chain summary + charging)
  status        Read the advertised state without connecting

Positions are reversed by default to match the factory mount; pass
--no-reverse for curtains opening left-to-right.

Examples:
  switchmote curtain D4:9C:01:55:10:02 open
  switchmote curtain D4:9C:01:55:10:02 position 40

Exit codes:
  0 - Command acknowledged
  1 - Device refused or never answered
  2 - Connection error`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runCurtain,
}

func init() {
	rootCmd.AddCommand(curtainCmd)
}

func runCurtain(cmd *cobra.Command, args []string) error {
	addr, action := args[0], args[1]

	c, _, cleanup, err := OpenCentral()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer cleanup()

	opts, err := deviceOptions()
	if err != nil {
		return err
	}
	curtain := switchmote.NewCurtain(c, addr, opts...)

	ctx, cancel := commandContext()
	defer cancel()

	switch action {
	case "open":
		return reportOutcome(curtain.Open(ctx))
	case "close":
		return reportOutcome(curtain.Close(ctx))
	case "stop":
		return reportOutcome(curtain.Stop(ctx))

	case "position":
		if len(args) < 3 {
			return fmt.Errorf("position requires a target percentage")
		}
		pos, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("position %q: %v", args[2], err)
		}
		return reportOutcome(curtain.SetPosition(ctx, pos))

	case "info":
		info, err := curtain.GetBasicInfo(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(2)
		}
		if info == nil {
			fmt.Println("Device declined the settings request.")
			os.Exit(1)
		}
		fmt.Printf("Curtain %s:\n%s", addr, woproto.FormatCurtainSettings(info))
		return nil

	case "ext":
		return runCurtainExt(ctx, curtain, addr)

	case "status":
		if err := curtain.Update(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Device not heard: %v\n", err)
			os.Exit(1)
		}
		pos, _ := curtain.Position()
		level, _ := curtain.LightLevel()
		cal, _ := curtain.IsCalibrated()
		battery, _ := curtain.Battery()
		fmt.Printf("Curtain %s: pos=%d%% light=%d calibrated=%v battery=%d%%\n",
			addr, pos, level, cal, battery)
		return nil

	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func runCurtainExt(ctx context.Context, curtain *switchmote.Curtain, addr string) error {
	sum, err := curtain.GetExtSummary(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		os.Exit(2)
	}
	adv, err := curtain.GetExtAdvance(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		os.Exit(2)
	}
	if sum == nil && adv == nil {
		fmt.Println("Device declined the extended info requests.")
		os.Exit(1)
	}

	fmt.Printf("Curtain %s extended info:\n", addr)
	if sum != nil {
		printExtDevice := func(idx int, d woproto.CurtainDeviceSummary) {
			fmt.Printf("  Device %d: direction=%s touch-to-open=%v light=%v\n",
				idx, d.OpenDirection, d.TouchToOpen, d.Light)
		}
		printExtDevice(0, sum.Device0)
		if sum.Device1 != nil {
			printExtDevice(1, *sum.Device1)
		}
	}
	if adv != nil {
		fmt.Printf("  Device 0: battery=%d%% firmware=%.1f charge=%s\n",
			adv.Device0.Battery, adv.Device0.Firmware, adv.Device0.ChargeState)
		if adv.Device1 != nil {
			fmt.Printf("  Device 1: battery=%d%% firmware=%.1f\n",
				adv.Device1.Battery, adv.Device1.Firmware)
		}
	}
	return nil
}
