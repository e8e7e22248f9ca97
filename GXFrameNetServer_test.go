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
	"bytes"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestServerDeliversFramesInWireOrder(t *testing.T) {
	g := newTestServer(t)
	log := newFrameLog()
	g.SetOnFrame(log.handler)
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	const n = 200
	for i := 0; i < n; i++ {
		if err := WriteFrame(conn, []byte(fmt.Sprintf("frame-%03d", i))); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
	}
	waitFor(t, "frames", func() bool { return log.total() == n })
	for i, f := range log.of(c.ID()) {
		if want := fmt.Sprintf("frame-%03d", i); string(f) != want {
			t.Fatalf("frame %d = %q, want %q", i, f, want)
		}
	}
}

func TestServerConcurrentClientsKeepPerClientOrder(t *testing.T) {
	g := newTestServer(t)
	log := newFrameLog()
	g.SetOnFrame(log.handler)
	openTestServer(t, g)

	const clients, frames = 4, 100
	conns := make([]net.Conn, clients)
	for i := range conns {
		conns[i] = dialTestServer(t, g)
	}
	waitClient(t, g, clients)

	var wg sync.WaitGroup
	for i, conn := range conns {
		wg.Add(1)
		go func(i int, conn net.Conn) {
			defer wg.Done()
			for seq := 0; seq < frames; seq++ {
				if err := WriteFrame(conn, []byte{byte(i), byte(seq)}); err != nil {
					return
				}
			}
		}(i, conn)
	}
	wg.Wait()
	waitFor(t, "frames", func() bool { return log.total() == clients*frames })

	for _, c := range g.Clients() {
		got := log.of(c.ID())
		if len(got) != frames {
			t.Fatalf("client %d: %d frames", c.ID(), len(got))
		}
		owner := got[0][0]
		for seq, f := range got {
			if f[0] != owner || int(f[1]) != seq {
				t.Fatalf("client %d: frame %d out of order: % X", c.ID(), seq, f)
			}
		}
	}
}

func TestServerEchoThroughClientWriter(t *testing.T) {
	g := newTestServer(t)
	g.SetOnFrame(func(m *GXFrameNet, c *GXNetClient, f *GXFrameBuffer) {
		_ = c.Send(f)
	})
	openTestServer(t, g)
	conn := dialTestServer(t, g)

	for _, msg := range []string{"AT", "", "ATI\r"} {
		if err := WriteFrame(conn, []byte(msg)); err != nil {
			t.Fatalf("write frame: %v", err)
		}
		f, err := ReadFrame(conn, 0)
		if err != nil {
			t.Fatalf("read echo: %v", err)
		}
		if string(f.Data) != msg {
			t.Fatalf("echo = %q, want %q", f.Data, msg)
		}
	}
	if g.GetBytesSent() == 0 || g.GetBytesReceived() == 0 {
		t.Fatalf("byte counters not updated: sent=%d received=%d", g.GetBytesSent(), g.GetBytesReceived())
	}
}

func TestServerSendByReceiver(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	first := dialTestServer(t, g)
	waitClient(t, g, 1)
	second := dialTestServer(t, g)
	c2 := waitClient(t, g, 2)

	if err := g.Send([]byte("to-second"), c2.String()); err != nil {
		t.Fatalf("send to receiver: %v", err)
	}
	f, err := ReadFrame(second, 0)
	if err != nil || string(f.Data) != "to-second" {
		t.Fatalf("second client read %v, %v", f, err)
	}

	if err := g.Send([]byte("all"), ""); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
	for _, conn := range []net.Conn{first, second} {
		f, err := ReadFrame(conn, 0)
		if err != nil || string(f.Data) != "all" {
			t.Fatalf("broadcast read %v, %v", f, err)
		}
	}

	if err := g.Send([]byte("x"), "10.0.0.1:1"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for unknown receiver, got %v", err)
	}
}

func TestClientMetadata(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	local := conn.LocalAddr().(*net.TCPAddr)
	if c.Address() != "127.0.0.1" || c.Port() != local.Port {
		t.Fatalf("metadata %s:%d, want 127.0.0.1:%d", c.Address(), c.Port(), local.Port)
	}
	if !c.IsAlive() || c.State() != ClientStateActive || c.Conn() == nil || c.Media() != g {
		t.Fatalf("unexpected client: alive=%v state=%v", c.IsAlive(), c.State())
	}
}

func TestClientEndOfStreamIsReapedOnce(t *testing.T) {
	g := newTestServer(t)
	metrics := NewGXMetrics("test")
	if err := metrics.Register(prometheus.NewRegistry()); err != nil {
		t.Fatalf("register metrics: %v", err)
	}
	g.SetMetrics(metrics)
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	_ = conn.Close()
	waitFor(t, "client freed", func() bool { return c.State() == ClientStateFreed })
	if c.IsAlive() {
		t.Fatalf("freed client is alive")
	}
	if len(g.Clients()) != 0 {
		t.Fatalf("freed client still registered")
	}
	if n := deadClients.count(g); n != 0 {
		t.Fatalf("%d handles left in dead client queue", n)
	}
	if n := c.running.Load(); n != 0 {
		t.Fatalf("%d workers still running", n)
	}
	if got := testutil.ToFloat64(metrics.clientsReaped); got != 1 {
		t.Fatalf("reaped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.clientsActive); got != 0 {
		t.Fatalf("active = %v, want 0", got)
	}
}

func TestClientEndedOnlyOnceUnderRace(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	dialTestServer(t, g)
	c := waitClient(t, g, 1)

	// Hold the reaper off so the queue can be inspected.
	g.reapMu.Lock()
	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.clientEnded(c) {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()
	if n := winners.Load(); n != 1 {
		g.reapMu.Unlock()
		t.Fatalf("%d callers ended the client, want 1", n)
	}
	if n := deadClients.count(g); n != 1 {
		g.reapMu.Unlock()
		t.Fatalf("client queued %d times, want 1", n)
	}
	if c.State() != ClientStateEndObserved || len(g.Clients()) != 0 {
		g.reapMu.Unlock()
		t.Fatalf("state %v with %d live clients", c.State(), len(g.Clients()))
	}
	g.reapMu.Unlock()
	g.reap()
	if c.State() != ClientStateFreed {
		t.Fatalf("state %v after reap", c.State())
	}
}

func TestClientNotFreedWhileWorkerRuns(t *testing.T) {
	g := newTestServer(t)
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	g.SetOnFrame(func(m *GXFrameNet, c *GXNetClient, f *GXFrameBuffer) {
		entered <- struct{}{}
		<-release
	})
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	if err := WriteFrame(conn, []byte("AT")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	<-entered
	_ = conn.Close()
	waitFor(t, "end observed", func() bool { return !c.IsAlive() })
	time.Sleep(50 * time.Millisecond)
	if s := c.State(); s == ClientStateFreed {
		t.Fatalf("client freed while its dispatcher is running")
	}
	if err := g.free(c); !errors.Is(err, ErrClientState) {
		t.Fatalf("expected ErrClientState from free, got %v", err)
	}
	close(release)
	waitFor(t, "client freed", func() bool { return c.State() == ClientStateFreed })
	if n := c.running.Load(); n != 0 {
		t.Fatalf("freed with %d running workers", n)
	}
}

func TestLifecycleRejectsOutOfOrderTransitions(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	dialTestServer(t, g)
	c := waitClient(t, g, 1)

	if err := g.free(c); !errors.Is(err, ErrClientState) {
		t.Fatalf("free of active client: %v", err)
	}
	if err := g.shutdown(c); !errors.Is(err, ErrClientState) {
		t.Fatalf("shutdown of active client: %v", err)
	}
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if err := g.startup(c, a); !errors.Is(err, ErrClientState) {
		t.Fatalf("second startup: %v", err)
	}
	other := NewGXFrameNetServer(NetworkTypeTCP, "127.0.0.1", 0)
	if err := other.startup(c, a); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("startup on another media: %v", err)
	}
}

func TestStartupOnClosedMediaRollsBack(t *testing.T) {
	g := newTestServer(t)
	c := newGXNetClient(g)
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if err := g.startup(c, a); !errors.Is(err, gxcommon.ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
	if c.State() != ClientStateFreed || c.IsAlive() || len(g.Clients()) != 0 {
		t.Fatalf("rolled back client reachable: state=%v", c.State())
	}
}

func TestIdentityMismatch(t *testing.T) {
	g := newTestServer(t)
	other := newTestServer(t)
	c := newGXNetClient(other)
	if _, err := g.netRx(c); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("netRx: expected ErrInvalidArgument, got %v", err)
	}
	if err := g.netTx(c, NewGXFrameBuffer([]byte("AT"))); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("netTx: expected ErrInvalidArgument, got %v", err)
	}
	if err := g.netTx(nil, nil); !errors.Is(err, ErrMissingParam) {
		t.Fatalf("netTx: expected ErrMissingParam, got %v", err)
	}
	var none *GXFrameNet
	if _, err := none.netRx(nil); !errors.Is(err, ErrMissingParam) {
		t.Fatalf("netRx: expected ErrMissingParam, got %v", err)
	}
	if _, err := g.netRx(nil); !errors.Is(err, ErrMissingParam) {
		t.Fatalf("netRx without socket: expected ErrMissingParam, got %v", err)
	}
}

func TestEndOfStreamEndsSessions(t *testing.T) {
	g := newTestServer(t)
	var errs []error
	var mu sync.Mutex
	g.SetOnError(func(m gxcommon.IGXMedia, err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	})
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	s1 := &testSession{}
	s2 := &testSession{err: errors.New("session busy")}
	detached := &testSession{}
	for _, s := range []*testSession{s1, s2, detached} {
		if err := c.Attach(s); err != nil {
			t.Fatalf("attach: %v", err)
		}
	}
	if !c.Detach(detached) {
		t.Fatalf("detach failed")
	}
	if len(c.Sessions()) != 2 {
		t.Fatalf("sessions = %d", len(c.Sessions()))
	}

	_ = conn.Close()
	waitFor(t, "sessions ended", func() bool { return s1.endCount() == 1 && s2.endCount() == 1 })
	if detached.endCount() != 0 {
		t.Fatalf("detached session ended")
	}
	if err := c.Attach(&testSession{}); !errors.Is(err, gxcommon.ErrConnectionClosed) {
		t.Fatalf("attach after end: %v", err)
	}
	waitFor(t, "session error reported", func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, err := range errs {
			if err.Error() == "session busy" {
				return true
			}
		}
		return false
	})
}

func TestExplicitClientClose(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)
	s := &testSession{}
	if err := c.Attach(s); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close client: %v", err)
	}
	if _, err := ReadFrame(conn, 0); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("peer read after close: %v", err)
	}
	waitFor(t, "client freed", func() bool { return c.State() == ClientStateFreed })
	if s.endCount() != 1 {
		t.Fatalf("session ended %d times", s.endCount())
	}
	if err := c.Send(NewGXFrameBuffer([]byte("AT"))); !errors.Is(err, gxcommon.ErrConnectionClosed) {
		t.Fatalf("send after close: %v", err)
	}
}

func TestClientFilterRejects(t *testing.T) {
	g := newTestServer(t)
	metrics := NewGXMetrics("test")
	g.SetMetrics(metrics)
	var seen atomic.Value
	g.SetClientFilter(func(m *GXFrameNet, remoteHost string) bool {
		seen.Store(remoteHost)
		return false
	})
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := ReadFrame(conn, 0); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected rejected connection to be closed, got %v", err)
	}
	if host, _ := seen.Load().(string); host != "127.0.0.1" {
		t.Fatalf("filter saw %q", host)
	}
	if len(g.Clients()) != 0 {
		t.Fatalf("rejected client registered")
	}
	if got := testutil.ToFloat64(metrics.clientsRejected); got != 1 {
		t.Fatalf("rejected = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.clientsAccepted); got != 0 {
		t.Fatalf("accepted = %v, want 0", got)
	}
}

func TestOversizedFrameKeepsConnection(t *testing.T) {
	g := newTestServer(t)
	g.MaxFrameSize = 4
	log := newFrameLog()
	g.SetOnFrame(log.handler)
	var dropped atomic.Int32
	g.SetOnError(func(m gxcommon.IGXMedia, err error) {
		if errors.Is(err, ErrOutOfMemory) {
			dropped.Add(1)
		}
	})
	openTestServer(t, g)
	conn := dialTestServer(t, g)
	c := waitClient(t, g, 1)

	if err := WriteFrame(conn, []byte("far too long")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := WriteFrame(conn, []byte("AT")); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	waitFor(t, "frame after oversized one", func() bool { return log.total() == 1 })
	if got := log.of(c.ID()); !bytes.Equal(got[0], []byte("AT")) {
		t.Fatalf("unexpected frame %q", got[0])
	}
	if dropped.Load() != 1 || !c.IsAlive() {
		t.Fatalf("dropped=%d alive=%v", dropped.Load(), c.IsAlive())
	}
}

func TestServerCloseReleasesClients(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	for i := 0; i < 3; i++ {
		dialTestServer(t, g)
	}
	waitClient(t, g, 3)
	clients := g.Clients()
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, c := range clients {
		if c.State() != ClientStateFreed {
			t.Fatalf("client %d in state %v after close", c.ID(), c.State())
		}
	}
	if g.IsOpen() || len(g.Clients()) != 0 || deadClients.count(g) != 0 {
		t.Fatalf("server not fully closed")
	}
	if err := g.Send([]byte("AT"), ""); !errors.Is(err, gxcommon.ErrConnectionClosed) {
		t.Fatalf("send after close: %v", err)
	}
}

func TestServerReopen(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	if err := g.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := g.Open(); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	dialTestServer(t, g)
	waitClient(t, g, 1)
}

// faultyConn fails reads or writes with a fixed error.
// A failing read waits for gate to be closed.
type faultyConn struct {
	net.Conn
	gate     chan struct{}
	readErr  error
	writeErr error
}

func (c *faultyConn) Read(p []byte) (int, error) {
	if c.readErr != nil {
		<-c.gate
		return 0, c.readErr
	}
	return c.Conn.Read(p)
}

func (c *faultyConn) Write(p []byte) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	return c.Conn.Write(p)
}

func TestClientIOFailureIsReapedOnce(t *testing.T) {
	injected := errors.New("connection reset by peer")
	cases := []struct {
		name  string
		write bool
	}{
		{"read failure", false},
		{"write failure", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestServer(t)
			metrics := NewGXMetrics("test")
			g.SetMetrics(metrics)
			var mu sync.Mutex
			var reported []error
			g.SetOnError(func(m gxcommon.IGXMedia, err error) {
				mu.Lock()
				reported = append(reported, err)
				mu.Unlock()
			})
			openTestServer(t, g)

			a, b := net.Pipe()
			defer b.Close()
			conn := &faultyConn{Conn: a, gate: make(chan struct{})}
			if tc.write {
				conn.writeErr = injected
			} else {
				conn.readErr = injected
			}
			c := newGXNetClient(g)
			if err := g.startup(c, conn); err != nil {
				t.Fatalf("startup: %v", err)
			}
			s := &testSession{}
			if err := c.Attach(s); err != nil {
				t.Fatalf("attach: %v", err)
			}

			// Hold the reaper off so the queue can be inspected.
			g.reapMu.Lock()
			if tc.write {
				if err := c.Send(NewGXFrameBuffer([]byte("AT"))); err != nil {
					g.reapMu.Unlock()
					t.Fatalf("send: %v", err)
				}
			} else {
				close(conn.gate)
			}
			deadline := time.Now().Add(5 * time.Second)
			for c.State() != ClientStateEndObserved && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			state, queued, live := c.State(), deadClients.count(g), len(g.Clients())
			g.reapMu.Unlock()
			if state != ClientStateEndObserved {
				t.Fatalf("state %v, want %v", state, ClientStateEndObserved)
			}
			if queued != 1 {
				t.Fatalf("client queued %d times, want 1", queued)
			}
			if live != 0 {
				t.Fatalf("%d live clients after failure", live)
			}

			waitFor(t, "client freed", func() bool { return c.State() == ClientStateFreed })
			if n := c.running.Load(); n != 0 {
				t.Fatalf("%d workers still running", n)
			}
			if n := s.endCount(); n != 1 {
				t.Fatalf("session ended %d times, want 1", n)
			}
			if n := deadClients.count(g); n != 0 {
				t.Fatalf("%d handles left in dead client queue", n)
			}
			if got := testutil.ToFloat64(metrics.clientsReaped); got != 1 {
				t.Fatalf("reaped = %v, want 1", got)
			}
			if got := testutil.ToFloat64(metrics.frameErrors.WithLabelValues("io")); got < 1 {
				t.Fatalf("io errors = %v", got)
			}
			mu.Lock()
			defer mu.Unlock()
			found := false
			for _, err := range reported {
				if errors.Is(err, ErrIO) && errors.Is(err, injected) {
					found = true
				}
			}
			if !found {
				t.Fatalf("injected failure not reported: %v", reported)
			}
		})
	}
}

// lowGauge records the lowest value the gauge reached.
type lowGauge struct {
	prometheus.Gauge
	mu     sync.Mutex
	value  float64
	lowest float64
}

func (g *lowGauge) Inc() {
	g.mu.Lock()
	g.value++
	g.mu.Unlock()
	g.Gauge.Inc()
}

func (g *lowGauge) Dec() {
	g.mu.Lock()
	g.value--
	g.lowest = min(g.lowest, g.value)
	g.mu.Unlock()
	g.Gauge.Dec()
}

func TestActiveClientsNeverNegative(t *testing.T) {
	g := newTestServer(t)
	metrics := NewGXMetrics("test")
	active := &lowGauge{Gauge: metrics.clientsActive}
	metrics.clientsActive = active
	g.SetMetrics(metrics)
	openTestServer(t, g)

	const n = 50
	for i := 0; i < n; i++ {
		a, b := net.Pipe()
		// The peer is gone before the client starts.
		_ = b.Close()
		if err := g.startup(newGXNetClient(g), a); err != nil {
			t.Fatalf("startup: %v", err)
		}
	}
	waitFor(t, "clients reaped", func() bool { return testutil.ToFloat64(metrics.clientsReaped) == n })
	active.mu.Lock()
	defer active.mu.Unlock()
	if active.lowest < 0 {
		t.Fatalf("active clients went down to %v", active.lowest)
	}
	if active.value != 0 {
		t.Fatalf("active clients = %v, want 0", active.value)
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	g := newTestServer(t)
	openTestServer(t, g)
	if err := g.Send([]byte("AT"), ""); !errors.Is(err, gxcommon.ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}
