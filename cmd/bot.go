// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/switchmote"
	"github.com/quenby/switchmote/pkg/woproto"
)

var (
	botStrength   int
	botSwitchMode bool
	botInverse    bool
	botHold       int
)

var botCmd = &cobra.Command{
	Use:   "bot <address> <press|on|off|info|mode|longpress|status>",
	Short: "Control a SwitchBot Bot",
	Long: `Send a command to a Bot.

Actions:
  press      Trigger one press (press mode)
  on         Move the arm to the on position (switch mode)
  off        Move the arm to the off position (switch mode)
  info       Read the settings page (battery, firmware, mode, timers)
  mode       Configure strength/mode/direction (--strength, --switch, --inverse)
  longpress  Configure the hold duration (--hold seconds)
  status     Read the advertised state without connecting

Password-protected Bots need SWITCHMOTE_PASSWORD or --ask-password.

Examples:
  switchmote bot C1:2E:7A:00:00:01 press
  switchmote bot C1:2E:7A:00:00:01 mode --strength 100 --switch
  switchmote bot C1:2E:7A:00:00:01 info --ask-password

Exit codes:
  0 - Command acknowledged
  1 - Device refused or never answered
  2 - Connection error`,
	Args: cobra.ExactArgs(2),
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
	botCmd.Flags().IntVar(&botStrength, "strength", 100, "Press strength, 0-100 (mode)")
	botCmd.Flags().BoolVar(&botSwitchMode, "switch", false, "Enable on/off switch mode (mode)")
	botCmd.Flags().BoolVar(&botInverse, "inverse", false, "Invert the arm direction (mode)")
	botCmd.Flags().IntVar(&botHold, "hold", 0, "Hold duration in seconds (longpress)")
}

func runBot(cmd *cobra.Command, args []string) error {
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
	bot := switchmote.NewBot(c, addr, opts...)

	ctx, cancel := commandContext()
	defer cancel()

	switch action {
	case "press":
		return reportOutcome(bot.Press(ctx))
	case "on":
		return reportOutcome(bot.TurnOn(ctx))
	case "off":
		return reportOutcome(bot.TurnOff(ctx))

	case "mode":
		return reportOutcome(bot.SetSwitchMode(ctx, byte(botStrength), botSwitchMode, botInverse))

	case "longpress":
		return reportOutcome(bot.SetLongPress(ctx, byte(botHold)))

	case "info":
		info, err := bot.GetBasicInfo(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(2)
		}
		if info == nil {
			fmt.Println("Device declined the settings request.")
			os.Exit(1)
		}
		fmt.Printf("Bot %s:\n%s", addr, woproto.FormatBotSettings(info))
		return nil

	case "status":
		if err := bot.Update(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Device not heard: %v\n", err)
			os.Exit(1)
		}
		mode, _ := bot.SwitchMode()
		on, _ := bot.IsOn()
		battery, _ := bot.Battery()
		fmt.Printf("Bot %s: mode=%s on=%v battery=%d%%\n", addr, botModeName(mode), on, battery)
		return nil

	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func botModeName(switchMode bool) string {
	if switchMode {
		return "switch"
	}
	return "press"
}

// reportOutcome turns a command result into output and an exit code.
func reportOutcome(ok bool, err error) error {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Command failed: %v\n", err)
		os.Exit(2)
	}
	if !ok {
		fmt.Println("Device refused the command.")
		os.Exit(1)
	}
	fmt.Println("OK")
	return nil
}
