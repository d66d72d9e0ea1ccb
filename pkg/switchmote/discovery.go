// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// Found is one discovered device: its address, last signal strength
// and most recent decoded advertisement.
type Found struct {
	Addr string
	RSSI int16
	Adv  woproto.Advertisement
}

// Scanner aggregates one time-boxed passive scan. Devices advertise
// continuously, so each address keeps only its most recent payload.
type Scanner struct {
	Central central.Central
	Timeout time.Duration
	Reverse bool // curtain position orientation

	// Stats, when set, accumulates counts across the scan.
	Stats *woproto.Statistics

	mu    sync.Mutex
	found map[string]Found
}

// NewScanner creates a scanner with the protocol-default window.
func NewScanner(c central.Central) *Scanner {
	return &Scanner{
		Central: c,
		Timeout: woproto.DefaultScanTimeout,
		Reverse: true,
	}
}

// Scan runs one scan window under the adapter lock, replacing any
// previous results.
func (s *Scanner) Scan(ctx context.Context) error {
	s.Central.Lock()
	defer s.Central.Unlock()

	s.mu.Lock()
	s.found = make(map[string]Found)
	s.mu.Unlock()

	scanCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	err := s.Central.Scan(scanCtx, func(a central.Advertisement) {
		adv, decodeErr := woproto.DecodeAdvertisement(a.ServiceData, s.Reverse)
		if s.Stats != nil {
			s.Stats.Update(adv, decodeErr)
		}
		if decodeErr != nil {
			log.Debug().Err(decodeErr).Str("addr", a.Addr).Msg("undecodable advertisement")
			return
		}

		s.mu.Lock()
		s.found[strings.ToUpper(a.Addr)] = Found{
			Addr: strings.ToUpper(a.Addr),
			RSSI: a.RSSI,
			Adv:  adv,
		}
		s.mu.Unlock()
	})
	if err != nil {
		return err
	}
	return nil
}

// Devices returns all discovered devices ordered by address.
func (s *Scanner) Devices() []Found {
	s.mu.Lock()
	defer s.mu.Unlock()

	devices := make([]Found, 0, len(s.found))
	for _, f := range s.found {
		devices = append(devices, f)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Addr < devices[j].Addr
	})
	return devices
}

// Bots returns the discovered Bots.
func (s *Scanner) Bots() []Found {
	return s.byModel(woproto.ModelBot)
}

// Curtains returns the discovered Curtains.
func (s *Scanner) Curtains() []Found {
	return s.byModel(woproto.ModelCurtain)
}

// Meters returns the discovered Meters.
func (s *Scanner) Meters() []Found {
	return s.byModel(woproto.ModelMeter)
}

func (s *Scanner) byModel(model woproto.Model) []Found {
	var devices []Found
	for _, f := range s.Devices() {
		if f.Adv.Model == model {
			devices = append(devices, f)
		}
	}
	return devices
}

// ByAddress looks up a discovered device, case-insensitively.
func (s *Scanner) ByAddress(addr string) (Found, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.found[strings.ToUpper(addr)]
	return f, ok
}
