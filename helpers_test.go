package gxframenet

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"net"
	"sync"
	"testing"
	"time"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestServer(t *testing.T) *GXFrameNet {
	t.Helper()
	g := NewGXFrameNetServer(NetworkTypeTCP, "127.0.0.1", 0)
	return g
}

func openTestServer(t *testing.T, g *GXFrameNet) {
	t.Helper()
	if err := g.Open(); err != nil {
		t.Fatalf("open server: %v", err)
	}
	t.Cleanup(func() { _ = g.Close() })
}

func dialTestServer(t *testing.T, g *GXFrameNet) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", g.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// waitClient waits until the server has n live clients and returns the newest.
func waitClient(t *testing.T, g *GXFrameNet, n int) *GXNetClient {
	t.Helper()
	var list []*GXNetClient
	waitFor(t, "live clients", func() bool {
		list = g.Clients()
		return len(list) == n
	})
	return list[n-1]
}

// frameLog records received frames per client handle.
type frameLog struct {
	mu     sync.Mutex
	frames map[uint64][][]byte
	count  int
}

func newFrameLog() *frameLog {
	return &frameLog{frames: make(map[uint64][][]byte)}
}

func (l *frameLog) handler(m *GXFrameNet, c *GXNetClient, f *GXFrameBuffer) {
	var id uint64
	if c != nil {
		id = c.ID()
	}
	l.mu.Lock()
	l.frames[id] = append(l.frames[id], f.Data)
	l.count++
	l.mu.Unlock()
}

func (l *frameLog) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

func (l *frameLog) of(id uint64) [][]byte {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]byte(nil), l.frames[id]...)
}

type testSession struct {
	mu    sync.Mutex
	ended int
	err   error
}

func (s *testSession) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended++
	return s.err
}

func (s *testSession) endCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
