// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quenby/switchmote/pkg/switchmote"
)

var (
	// Bridge connection flags
	bridgeURL         string
	bridgeUsername    string
	bridgeNoSSLVerify bool

	// Device flags
	askPassword bool
	retryCount  int
	cmdTimeout  int
	noReverse   bool

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "switchmote",
	Short: "SwitchBot BLE toolkit",
	Long: `Switchmote - A CLI tool for discovering and controlling SwitchBot
devices (Bot, Curtain, Meter) over Bluetooth Low Energy.

Connection modes:
  Local:  the host Bluetooth adapter (default)
  Bridge: --bridge ws://host/path [--username user] proxies all radio
          operations to a remote BLE gateway

For bridge authentication, the gateway password is read from the
SWITCHMOTE_BRIDGE_PASSWORD environment variable, or prompted
interactively if not set.

Password-protected devices: set SWITCHMOTE_PASSWORD, or pass
--ask-password to be prompted. The password never appears on the
command line.`,
	Version: "1.2.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&bridgeURL, "bridge", "u", "", "BLE gateway URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&bridgeUsername, "username", "", "Username for gateway HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&bridgeNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().BoolVar(&askPassword, "ask-password", false, "Prompt for the device password")
	rootCmd.PersistentFlags().IntVar(&retryCount, "retries", 3, "Command retry attempts")
	rootCmd.PersistentFlags().IntVar(&cmdTimeout, "timeout", 30, "Overall command timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&noReverse, "no-reverse", false, "Curtain opens left-to-right (disable reversed positions)")

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// deviceOptions assembles facade options from the persistent flags.
func deviceOptions() ([]switchmote.Option, error) {
	opts := []switchmote.Option{
		switchmote.WithRetries(retryCount),
		switchmote.WithReverse(!noReverse),
	}

	password := os.Getenv("SWITCHMOTE_PASSWORD")
	if password == "" && askPassword {
		var err error
		password, err = promptPassword("Device password: ")
		if err != nil {
			return nil, err
		}
	}
	if password != "" {
		opts = append(opts, switchmote.WithPassword(password))
	}
	return opts, nil
}

// commandContext returns the context bounding one CLI invocation.
func commandContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cmdTimeout)*time.Second)
}
