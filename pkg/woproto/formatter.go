// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import "fmt"

// FormatAdvertisement formats a decoded advertisement into a
// human-readable single-line summary for the CLI and monitor views.
func FormatAdvertisement(adv Advertisement) string {
	enc := ""
	if adv.Encrypted {
		enc = " [password]"
	}

	switch adv.Model {
	case ModelBot:
		return fmt.Sprintf("Bot%s mode=%s on=%v battery=%d%%",
			enc, formatBotMode(adv.Bot.SwitchMode), adv.Bot.IsOn, adv.Bot.Battery)

	case ModelCurtain:
		motion := ""
		if adv.Curtain.InMotion {
			motion = " moving"
		}
		cal := ""
		if !adv.Curtain.Calibrated {
			cal = " uncalibrated"
		}
		return fmt.Sprintf("Curtain%s pos=%d%%%s%s light=%d chain=%d battery=%d%%",
			enc, adv.Curtain.Position, motion, cal,
			adv.Curtain.LightLevel, adv.Curtain.DeviceChain, adv.Curtain.Battery)

	case ModelMeter:
		return fmt.Sprintf("Meter%s temp=%.1f°C (%.1f°F) humidity=%d%% battery=%d%%",
			enc, adv.Meter.TempC, adv.Meter.TempF, adv.Meter.Humidity, adv.Meter.Battery)

	default:
		return "Unknown" + enc
	}
}

// formatBotMode returns a human-readable Bot mode name
func formatBotMode(switchMode bool) string {
	if switchMode {
		return "switch"
	}
	return "press"
}

// FormatBotSettings formats a Bot settings page over several lines.
func FormatBotSettings(s *BotSettings) string {
	result := fmt.Sprintf("  Battery:    %d%%\n", s.Battery)
	result += fmt.Sprintf("  Firmware:   %.1f\n", s.Firmware)
	result += fmt.Sprintf("  Strength:   %d\n", s.Strength)
	result += fmt.Sprintf("  Timers:     %d\n", s.Timers)
	result += fmt.Sprintf("  Mode:       %s\n", formatBotMode(s.SwitchMode))
	result += fmt.Sprintf("  Inverse:    %v\n", s.Inverse)
	result += fmt.Sprintf("  Hold:       %ds\n", s.HoldSeconds)
	return result
}

// FormatCurtainSettings formats a Curtain settings page over several lines.
func FormatCurtainSettings(s *CurtainSettings) string {
	result := fmt.Sprintf("  Battery:    %d%%\n", s.Battery)
	result += fmt.Sprintf("  Firmware:   %.1f\n", s.Firmware)
	result += fmt.Sprintf("  Chain:      %d\n", s.ChainLength)
	result += fmt.Sprintf("  Direction:  %s\n", s.OpenDirection)
	result += fmt.Sprintf("  Position:   %d%%\n", s.Position)
	result += fmt.Sprintf("  Calibrated: %v\n", s.Calibrated)
	result += fmt.Sprintf("  In Motion:  %v\n", s.InMotion)
	result += fmt.Sprintf("  Touch Open: %v\n", s.TouchToOpen)
	result += fmt.Sprintf("  Light:      %v\n", s.Light)
	result += fmt.Sprintf("  Fault:      %v\n", s.Fault)
	result += fmt.Sprintf("  Solar:      %v\n", s.SolarPanel)
	result += fmt.Sprintf("  Timers:     %d\n", s.Timers)
	return result
}
