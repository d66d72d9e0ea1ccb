// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

// Package switchmote drives SwitchBot devices over a BLE central:
// command transactions with bounded retry, per-model facades and
// passive discovery.
package switchmote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quenby/switchmote/pkg/central"
	"github.com/quenby/switchmote/pkg/woproto"
)

var errNoNotification = errors.New("no notification before timeout")

// Engine runs command transactions: connect, subscribe, write, await
// the notification, disconnect. Failed attempts are retried a bounded
// number of times with a fixed wait in between.
type Engine struct {
	Central central.Central

	Retries         int           // retry attempts after the first
	RetryWait       time.Duration // pause between attempts
	ResponseTimeout time.Duration // wait for the notification
}

// NewEngine creates an engine with protocol-default retry behavior.
func NewEngine(c central.Central) *Engine {
	return &Engine{
		Central:         c,
		Retries:         woproto.DefaultRetryCount,
		RetryWait:       woproto.DefaultRetryWait,
		ResponseTimeout: woproto.DefaultScanTimeout,
	}
}

// Exchange sends key to addr and returns the device's raw notification
// payload. The adapter lock is held for the whole call, covering every
// retry. Exhausting the retries is not an error: the last raw result,
// possibly empty, is returned and the caller classifies it with
// woproto.OutcomeOf. Only context cancellation fails hard.
func (e *Engine) Exchange(ctx context.Context, addr string, key woproto.Key) ([]byte, error) {
	payload, err := key.Bytes()
	if err != nil {
		return nil, err
	}

	e.Central.Lock()
	defer e.Central.Unlock()

	attempts := e.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var last []byte
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-time.After(e.RetryWait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := e.attempt(ctx, addr, payload)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn().Err(err).Str("addr", addr).Int("attempt", i+1).
				Msg("transaction attempt failed")
			continue
		}

		last = resp
		if len(resp) > 0 {
			return resp, nil
		}
		log.Warn().Str("addr", addr).Int("attempt", i+1).
			Msg("device answered with empty notification")
	}

	log.Warn().Str("addr", addr).Int("attempts", attempts).
		Msg("transaction retries exhausted")
	return last, nil
}

// attempt runs one full transaction. The link is torn down on every
// path once the connection is up.
func (e *Engine) attempt(ctx context.Context, addr string, payload []byte) ([]byte, error) {
	link, err := e.Central.Connect(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer link.Disconnect()

	// Buffered so a notification delivered during Write is not lost.
	notifyCh := make(chan []byte, 1)
	err = link.Subscribe(func(data []byte) {
		select {
		case notifyCh <- data:
		default:
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	if err := link.Write(payload); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	select {
	case resp := <-notifyCh:
		log.Debug().Str("addr", addr).Hex("resp", resp).Msg("notification received")
		return resp, nil
	case <-time.After(e.ResponseTimeout):
		return nil, errNoNotification
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
