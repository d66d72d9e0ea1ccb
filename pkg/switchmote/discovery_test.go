// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"testing"
	"time"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// ============================================================
// Scanner Tests
// ============================================================

func TestScanner_AggregatesByAddress(t *testing.T) {
	mock := &central.MockCentral{
		Adverts: []central.Advertisement{
			{Addr: "C1:2E:7A:00:00:01", RSSI: -60, ServiceData: []byte{0x48, 0xC0, 0x32, 0x00, 0x00}},
			{Addr: "D4:9C:01:55:10:02", RSSI: -50, ServiceData: []byte{'c', 0x40, 0x55, 0x19, 0x51}},
			{Addr: "E6:11:02:9B:41:27", RSSI: -72, ServiceData: []byte{'T', 0x00, 0x64, 0x04, 0x99, 0x2D}},
			// Same Bot again with a fresher battery reading
			{Addr: "C1:2E:7A:00:00:01", RSSI: -61, ServiceData: []byte{0x48, 0xC0, 0x31, 0x00, 0x00}},
			// Unrecognized model letter still gets recorded
			{Addr: "AA:BB:CC:DD:EE:FF", RSSI: -80, ServiceData: []byte{'Z', 0x00, 0x00, 0x00, 0x00}},
			// Truncated payload is dropped
			{Addr: "11:22:33:44:55:66", RSSI: -81, ServiceData: []byte{0x48, 0xC0}},
		},
	}

	s := NewScanner(mock)
	s.Timeout = 100 * time.Millisecond
	s.Stats = woproto.NewStatistics()

	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	devices := s.Devices()
	if len(devices) != 4 {
		t.Fatalf("Expected 4 devices, got %d", len(devices))
	}

	if bots := s.Bots(); len(bots) != 1 {
		t.Errorf("Expected 1 Bot, got %d", len(bots))
	}
	if curtains := s.Curtains(); len(curtains) != 1 {
		t.Errorf("Expected 1 Curtain, got %d", len(curtains))
	}
	if meters := s.Meters(); len(meters) != 1 {
		t.Errorf("Expected 1 Meter, got %d", len(meters))
	}

	// Last advertisement per address wins
	bot, ok := s.ByAddress("C1:2E:7A:00:00:01")
	if !ok {
		t.Fatal("Bot not found by address")
	}
	if bot.Adv.Bot.Battery != 49 {
		t.Errorf("Expected the fresher battery reading 49, got %d", bot.Adv.Bot.Battery)
	}
	if bot.RSSI != -61 {
		t.Errorf("Expected the fresher RSSI -61, got %d", bot.RSSI)
	}

	// Address lookup is case-insensitive
	if _, ok := s.ByAddress("c1:2e:7a:00:00:01"); !ok {
		t.Error("Lowercase address lookup failed")
	}
	if _, ok := s.ByAddress("00:00:00:00:00:00"); ok {
		t.Error("Unknown address lookup should fail")
	}

	if s.Stats.TotalAdverts != 6 {
		t.Errorf("Stats total: expected 6, got %d", s.Stats.TotalAdverts)
	}
	if s.Stats.BotAdverts != 2 {
		t.Errorf("Stats bots: expected 2, got %d", s.Stats.BotAdverts)
	}
	if s.Stats.UnknownModels != 1 {
		t.Errorf("Stats unknown: expected 1, got %d", s.Stats.UnknownModels)
	}
	if s.Stats.ShortPayloads != 1 {
		t.Errorf("Stats short: expected 1, got %d", s.Stats.ShortPayloads)
	}
}

func TestScanner_RescanReplacesResults(t *testing.T) {
	mock := &central.MockCentral{
		Adverts: []central.Advertisement{
			{Addr: "C1:2E:7A:00:00:01", ServiceData: []byte{0x48, 0xC0, 0x32, 0x00, 0x00}},
		},
	}

	s := NewScanner(mock)
	s.Timeout = 100 * time.Millisecond

	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(s.Devices()) != 1 {
		t.Fatalf("Expected 1 device after first scan")
	}

	mock.Adverts = nil
	if err := s.Scan(context.Background()); err != nil {
		t.Fatalf("Rescan error: %v", err)
	}
	if len(s.Devices()) != 0 {
		t.Error("Rescan should discard previous results")
	}
}

func TestScanner_ReverseAffectsCurtainPosition(t *testing.T) {
	adverts := []central.Advertisement{
		{Addr: "D4:9C:01:55:10:02", ServiceData: []byte{'c', 0x40, 0x55, 0x19, 0x51}},
	}

	reversed := NewScanner(&central.MockCentral{Adverts: adverts})
	reversed.Timeout = 100 * time.Millisecond
	if err := reversed.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	plain := NewScanner(&central.MockCentral{Adverts: adverts})
	plain.Timeout = 100 * time.Millisecond
	plain.Reverse = false
	if err := plain.Scan(context.Background()); err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	r, _ := reversed.ByAddress("D4:9C:01:55:10:02")
	p, _ := plain.ByAddress("D4:9C:01:55:10:02")
	if r.Adv.Curtain.Position != 75 || p.Adv.Curtain.Position != 25 {
		t.Errorf("Expected 75/25, got %d/%d", r.Adv.Curtain.Position, p.Adv.Curtain.Position)
	}
}
