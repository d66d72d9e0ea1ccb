// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package central

import (
	"context"
	"sync"
)

// MockCentral is an in-memory Central for tests. Scans replay the
// scripted advertisements once and return; Connect hands out the
// configured MockLink, optionally failing the first ConnectFailures
// attempts.
type MockCentral struct {
	mu sync.Mutex

	Adverts []Advertisement
	Link    *MockLink

	ConnectErr      error // returned while failing
	ConnectFailures int   // number of leading Connect calls to fail

	ScanCalls    int
	ConnectCalls int
}

func (m *MockCentral) Lock()   { m.mu.Lock() }
func (m *MockCentral) Unlock() { m.mu.Unlock() }

func (m *MockCentral) Scan(ctx context.Context, cb func(Advertisement)) error {
	m.ScanCalls++
	for _, adv := range m.Adverts {
		if ctx.Err() != nil {
			return nil
		}
		cb(adv)
	}
	return nil
}

func (m *MockCentral) Connect(ctx context.Context, addr string) (Link, error) {
	m.ConnectCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ConnectCalls <= m.ConnectFailures {
		err := m.ConnectErr
		if err == nil {
			err = ErrNotFound
		}
		return nil, err
	}
	if m.Link == nil {
		return nil, ErrNotFound
	}
	m.Link.ConnectedTo = addr
	return m.Link, nil
}

// MockLink scripts one GATT connection. Each Write consumes the next
// entry of Responses and, when it is non-nil, delivers it through the
// subscribed callback; a nil entry leaves the device silent so
// timeout handling can be exercised.
type MockLink struct {
	mu sync.Mutex

	Responses    [][]byte
	SubscribeErr error
	WriteErr     error

	ConnectedTo string
	Writes      [][]byte
	Disconnects int

	notify func([]byte)
}

func (l *MockLink) Subscribe(fn func([]byte)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.SubscribeErr != nil {
		return l.SubscribeErr
	}
	l.notify = fn
	return nil
}

func (l *MockLink) Write(data []byte) error {
	l.mu.Lock()
	if l.WriteErr != nil {
		l.mu.Unlock()
		return l.WriteErr
	}
	l.Writes = append(l.Writes, append([]byte(nil), data...))

	var resp []byte
	if len(l.Responses) > 0 {
		resp = l.Responses[0]
		l.Responses = l.Responses[1:]
	}
	notify := l.notify
	l.mu.Unlock()

	if resp != nil && notify != nil {
		notify(resp)
	}
	return nil
}

func (l *MockLink) Disconnect() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Disconnects++
	l.notify = nil
	return nil
}
