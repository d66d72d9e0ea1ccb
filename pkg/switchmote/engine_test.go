// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package switchmote

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

// newTestEngine wires an engine to a mock central with no retry pauses
// and a short notification window.
func newTestEngine(c *central.MockCentral) *Engine {
	e := NewEngine(c)
	e.RetryWait = 0
	e.ResponseTimeout = 20 * time.Millisecond
	return e
}

const testAddr = "C1:2E:7A:00:00:01"

// ============================================================
// Transaction Engine Tests
// ============================================================

func TestEngine_FirstAttemptSuccess(t *testing.T) {
	link := &central.MockLink{Responses: [][]byte{{0x01}}}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)

	resp, err := e.Exchange(context.Background(), testAddr, woproto.KeyPress)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if !bytes.Equal(resp, []byte{0x01}) {
		t.Errorf("Expected response 01, got % x", resp)
	}
	if mock.ConnectCalls != 1 {
		t.Errorf("Expected 1 connect, got %d", mock.ConnectCalls)
	}
	if link.Disconnects != 1 {
		t.Errorf("Expected 1 disconnect, got %d", link.Disconnects)
	}
	if len(link.Writes) != 1 || !bytes.Equal(link.Writes[0], []byte{0x57, 0x01, 0x00}) {
		t.Errorf("Unexpected writes: %v", link.Writes)
	}
}

func TestEngine_RetriesConnectFailures(t *testing.T) {
	link := &central.MockLink{Responses: [][]byte{{0x01}}}
	mock := &central.MockCentral{
		Link:            link,
		ConnectFailures: 2,
		ConnectErr:      errors.New("le connection abort"),
	}
	e := newTestEngine(mock)
	e.Retries = 3

	resp, err := e.Exchange(context.Background(), testAddr, woproto.KeyTurnOn)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if !bytes.Equal(resp, []byte{0x01}) {
		t.Errorf("Expected response 01, got % x", resp)
	}
	if mock.ConnectCalls != 3 {
		t.Errorf("Expected 3 connects (2 failures + 1 success), got %d", mock.ConnectCalls)
	}
	// Only the successful connect has a link to tear down
	if link.Disconnects != 1 {
		t.Errorf("Expected 1 disconnect, got %d", link.Disconnects)
	}
}

func TestEngine_ExhaustsRetriesOnSilence(t *testing.T) {
	// No scripted responses: every attempt times out waiting
	link := &central.MockLink{}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)
	e.Retries = 3

	resp, err := e.Exchange(context.Background(), testAddr, woproto.KeyPress)
	if err != nil {
		t.Fatalf("Exhausted retries must not be a hard error, got %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("Expected empty result after exhaustion, got % x", resp)
	}
	if mock.ConnectCalls != 4 {
		t.Errorf("Expected 4 attempts (1 + 3 retries), got %d", mock.ConnectCalls)
	}
	if link.Disconnects != 4 {
		t.Errorf("Every attempt must disconnect: expected 4, got %d", link.Disconnects)
	}
}

func TestEngine_PasswordErrorReturnsImmediately(t *testing.T) {
	link := &central.MockLink{Responses: [][]byte{{0x07}}}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)
	e.Retries = 3

	resp, err := e.Exchange(context.Background(), testAddr, woproto.KeyPress)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if woproto.OutcomeOf(resp) != woproto.OutcomePasswordRequired {
		t.Errorf("Expected password-required response, got % x", resp)
	}
	// A non-empty answer ends the loop even when it is an error status
	if mock.ConnectCalls != 1 {
		t.Errorf("Expected 1 attempt, got %d", mock.ConnectCalls)
	}
	if link.Disconnects != 1 {
		t.Errorf("Expected 1 disconnect, got %d", link.Disconnects)
	}
}

func TestEngine_SubscribeFailureDisconnects(t *testing.T) {
	link := &central.MockLink{SubscribeErr: errors.New("att error")}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)
	e.Retries = 1

	resp, err := e.Exchange(context.Background(), testAddr, woproto.KeyPress)
	if err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if len(resp) != 0 {
		t.Errorf("Expected empty result, got % x", resp)
	}
	if mock.ConnectCalls != 2 {
		t.Errorf("Expected 2 attempts, got %d", mock.ConnectCalls)
	}
	// The link came up both times, so it must come down both times
	if link.Disconnects != 2 {
		t.Errorf("Expected 2 disconnects, got %d", link.Disconnects)
	}
}

func TestEngine_WriteFailureDisconnects(t *testing.T) {
	link := &central.MockLink{WriteErr: errors.New("not connected")}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)
	e.Retries = 0

	if _, err := e.Exchange(context.Background(), testAddr, woproto.KeyPress); err != nil {
		t.Fatalf("Exchange error: %v", err)
	}
	if link.Disconnects != 1 {
		t.Errorf("Expected 1 disconnect, got %d", link.Disconnects)
	}
}

func TestEngine_ContextCancellation(t *testing.T) {
	link := &central.MockLink{}
	mock := &central.MockCentral{Link: link}
	e := newTestEngine(mock)
	e.ResponseTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := e.Exchange(ctx, testAddr, woproto.KeyPress)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if link.Disconnects != 1 {
		t.Errorf("Cancelled attempt must still disconnect: got %d", link.Disconnects)
	}
}

func TestEngine_BadKey(t *testing.T) {
	mock := &central.MockCentral{}
	e := newTestEngine(mock)

	if _, err := e.Exchange(context.Background(), testAddr, woproto.Key("57zz")); err == nil {
		t.Error("Expected error for malformed key")
	}
	if mock.ConnectCalls != 0 {
		t.Error("Malformed key must not reach the radio")
	}
}
