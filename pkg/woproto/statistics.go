// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

import (
	"fmt"
	"time"
)

// Statistics tracks advertisement counts and error rates during a scan
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	TotalAdverts   uint64
	BotAdverts     uint64
	CurtainAdverts uint64
	MeterAdverts   uint64
	UnknownModels  uint64
	ShortPayloads  uint64
	Encrypted      uint64

	// Rates (calculated)
	AdvertRate float64 // adverts/sec
	ErrorRate  float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records one decoded (or failed) advertisement
func (s *Statistics) Update(adv Advertisement, decodeErr error) {
	s.TotalAdverts++
	s.LastUpdateTime = time.Now()

	if decodeErr != nil {
		s.ShortPayloads++
		return
	}

	if adv.Encrypted {
		s.Encrypted++
	}

	switch adv.Model {
	case ModelBot:
		s.BotAdverts++
	case ModelCurtain:
		s.CurtainAdverts++
	case ModelMeter:
		s.MeterAdverts++
	default:
		s.UnknownModels++
	}
}

// CalculateRates calculates advertisement and error rates
func (s *Statistics) CalculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		s.AdvertRate = float64(s.TotalAdverts) / elapsed
		s.ErrorRate = float64(s.ShortPayloads) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates()

	var botPercent, curtainPercent, meterPercent, unknownPercent, shortPercent float64
	if s.TotalAdverts > 0 {
		botPercent = float64(s.BotAdverts) * 100.0 / float64(s.TotalAdverts)
		curtainPercent = float64(s.CurtainAdverts) * 100.0 / float64(s.TotalAdverts)
		meterPercent = float64(s.MeterAdverts) * 100.0 / float64(s.TotalAdverts)
		unknownPercent = float64(s.UnknownModels) * 100.0 / float64(s.TotalAdverts)
		shortPercent = float64(s.ShortPayloads) * 100.0 / float64(s.TotalAdverts)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Scan Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Total Adverts:   %8d\n", s.TotalAdverts)
	result += fmt.Sprintf("Bots:            %8d (%.1f%%)\n", s.BotAdverts, botPercent)
	result += fmt.Sprintf("Curtains:        %8d (%.1f%%)\n", s.CurtainAdverts, curtainPercent)
	result += fmt.Sprintf("Meters:          %8d (%.1f%%)\n", s.MeterAdverts, meterPercent)

	if s.UnknownModels > 0 {
		result += fmt.Sprintf("Unknown Models:  %8d (%.1f%%)\n", s.UnknownModels, unknownPercent)
	}
	if s.ShortPayloads > 0 {
		result += fmt.Sprintf("Short Payloads:  %8d (%.1f%%)\n", s.ShortPayloads, shortPercent)
	}
	if s.Encrypted > 0 {
		result += fmt.Sprintf("Encrypted:       %8d\n", s.Encrypted)
	}

	result += fmt.Sprintf("Advert Rate:     %8.1f adverts/sec\n", s.AdvertRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	now := time.Now()
	*s = Statistics{StartTime: now, LastUpdateTime: now}
}
