// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Quenby Labs

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/quenby/switchmote/pkg/central"
)

// promptPassword reads a password from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// getBridgePassword retrieves the gateway password from the
// environment or prompts for it.
func getBridgePassword() (string, error) {
	if pw := os.Getenv("SWITCHMOTE_BRIDGE_PASSWORD"); pw != "" {
		return pw, nil
	}
	return promptPassword("Bridge password: ")
}

// OpenCentral opens the BLE central selected by the flags: the remote
// bridge when --bridge is set, the host adapter otherwise. The
// returned cleanup func releases transport resources.
func OpenCentral() (central.Central, string, func(), error) {
	if bridgeURL != "" {
		password := ""
		if bridgeUsername != "" {
			var err error
			password, err = getBridgePassword()
			if err != nil {
				return nil, "", nil, err
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		bridge, err := central.DialBridge(ctx, bridgeURL, central.BridgeOptions{
			Username:      bridgeUsername,
			Password:      password,
			SkipSSLVerify: bridgeNoSSLVerify,
		})
		if err != nil {
			return nil, "", nil, err
		}

		return bridge, fmt.Sprintf("Bridge: %s", bridgeURL), func() { bridge.Close() }, nil
	}

	return central.NewLocalCentral(), "Local adapter", func() {}, nil
}
