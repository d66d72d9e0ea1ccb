// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package central

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Bridge wire protocol: every websocket binary message is one
// CBOR-encoded frame. The client sends scan/stop/connect/subscribe/
// write/disconnect, the gateway answers with adv/connected/ack/notify/
// error. One link is in flight per bridge connection.
const (
	opScan       = "scan"
	opStop       = "stop"
	opAdv        = "adv"
	opConnect    = "connect"
	opConnected  = "connected"
	opSubscribe  = "subscribe"
	opWrite      = "write"
	opAck        = "ack"
	opNotify     = "notify"
	opDisconnect = "disconnect"
	opError      = "error"
)

type bridgeFrame struct {
	Op   string `cbor:"op"`
	Addr string `cbor:"addr,omitempty"`
	Name string `cbor:"name,omitempty"`
	RSSI int16  `cbor:"rssi,omitempty"`
	Data []byte `cbor:"data,omitempty"`
	Err  string `cbor:"err,omitempty"`
}

// BridgeOptions configures the websocket dial.
type BridgeOptions struct {
	Username      string
	Password      string
	SkipSSLVerify bool // wss:// only
}

// BridgeCentral proxies the central role to a remote BLE gateway over a
// websocket, for hosts without a usable adapter of their own.
type BridgeCentral struct {
	mu sync.Mutex // adapter lock, held by callers

	conn *websocket.Conn
	wmu  sync.Mutex // serializes frame writes

	frames chan bridgeFrame
	closed chan struct{}

	notifyMu sync.Mutex
	notifyFn func([]byte)
}

// DialBridge connects to a bridge gateway at a ws:// or wss:// URL.
func DialBridge(ctx context.Context, bridgeURL string, opts BridgeOptions) (*BridgeCentral, error) {
	u, err := url.Parse(bridgeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: opts.SkipSSLVerify,
		}
	}

	headers := http.Header{}
	if opts.Username != "" && opts.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	conn, resp, err := dialer.DialContext(ctx, bridgeURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("bridge connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("bridge connection failed: %w", err)
	}

	b := &BridgeCentral{
		conn:   conn,
		frames: make(chan bridgeFrame, 32),
		closed: make(chan struct{}),
	}
	go b.readLoop()
	log.Debug().Str("url", bridgeURL).Msg("bridge connected")
	return b, nil
}

func (b *BridgeCentral) Lock()   { b.mu.Lock() }
func (b *BridgeCentral) Unlock() { b.mu.Unlock() }

// Close tears down the websocket.
func (b *BridgeCentral) Close() error {
	return b.conn.Close()
}

func (b *BridgeCentral) readLoop() {
	defer close(b.closed)
	for {
		messageType, data, err := b.conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("bridge read loop ended")
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		var f bridgeFrame
		if err := cbor.Unmarshal(data, &f); err != nil {
			log.Warn().Err(err).Msg("bridge sent undecodable frame")
			continue
		}

		// Notifications bypass the frame queue so they reach the
		// subscriber while a transaction is blocked waiting for them.
		if f.Op == opNotify {
			b.notifyMu.Lock()
			fn := b.notifyFn
			b.notifyMu.Unlock()
			if fn != nil {
				fn(f.Data)
			}
			continue
		}

		select {
		case b.frames <- f:
		default:
			log.Warn().Str("op", f.Op).Msg("bridge frame queue full, dropping")
		}
	}
}

func (b *BridgeCentral) send(f bridgeFrame) error {
	data, err := cbor.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", f.Op, err)
	}
	b.wmu.Lock()
	defer b.wmu.Unlock()
	if err := b.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("send %s frame: %w", f.Op, err)
	}
	return nil
}

// await consumes queued frames until one matches op, an error frame
// arrives, or ctx expires.
func (b *BridgeCentral) await(ctx context.Context, op string) (bridgeFrame, error) {
	for {
		select {
		case f := <-b.frames:
			switch f.Op {
			case op:
				return f, nil
			case opError:
				return f, fmt.Errorf("bridge: %s", f.Err)
			default:
				// Stale frame from a previous operation; drop it.
			}
		case <-b.closed:
			return bridgeFrame{}, ErrClosed
		case <-ctx.Done():
			return bridgeFrame{}, ctx.Err()
		}
	}
}

// Scan asks the gateway to scan and relays advertisements until ctx is
// done.
func (b *BridgeCentral) Scan(ctx context.Context, cb func(Advertisement)) error {
	if err := b.send(bridgeFrame{Op: opScan}); err != nil {
		return err
	}

	for {
		select {
		case f := <-b.frames:
			switch f.Op {
			case opAdv:
				cb(Advertisement{
					Addr:        f.Addr,
					LocalName:   f.Name,
					RSSI:        f.RSSI,
					ServiceData: f.Data,
				})
			case opError:
				return fmt.Errorf("bridge scan: %s", f.Err)
			}
		case <-b.closed:
			return ErrClosed
		case <-ctx.Done():
			// Best effort; the gateway also stops on its own timer.
			b.send(bridgeFrame{Op: opStop})
			return nil
		}
	}
}

// Connect asks the gateway to open a GATT connection to addr.
func (b *BridgeCentral) Connect(ctx context.Context, addr string) (Link, error) {
	if err := b.send(bridgeFrame{Op: opConnect, Addr: addr}); err != nil {
		return nil, err
	}
	if _, err := b.await(ctx, opConnected); err != nil {
		return nil, fmt.Errorf("connect %s: %w", addr, err)
	}
	return &bridgeLink{bridge: b, addr: addr}, nil
}

type bridgeLink struct {
	bridge *BridgeCentral
	addr   string
}

func (l *bridgeLink) Subscribe(fn func([]byte)) error {
	l.bridge.notifyMu.Lock()
	l.bridge.notifyFn = fn
	l.bridge.notifyMu.Unlock()

	if err := l.bridge.send(bridgeFrame{Op: opSubscribe, Addr: l.addr}); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := l.bridge.await(ctx, opAck); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (l *bridgeLink) Write(data []byte) error {
	if err := l.bridge.send(bridgeFrame{Op: opWrite, Addr: l.addr, Data: data}); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := l.bridge.await(ctx, opAck); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (l *bridgeLink) Disconnect() error {
	l.bridge.notifyMu.Lock()
	l.bridge.notifyFn = nil
	l.bridge.notifyMu.Unlock()

	if err := l.bridge.send(bridgeFrame{Op: opDisconnect, Addr: l.addr}); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := l.bridge.await(ctx, opAck); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}
