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
	"errors"
	"net"
	"slices"
	"time"

	"github.com/Gurux/gxcommon-go"
)

// ClientFilter decides if a client connecting from remoteHost is accepted.
// A rejected client is closed before any worker is started.
type ClientFilter func(m *GXFrameNet, remoteHost string) bool

// SetClientFilter sets the filter used to accept new clients in server mode.
func (g *GXFrameNet) SetClientFilter(value ClientFilter) {
	g.mu.Lock()
	g.filter = value
	g.mu.Unlock()
}

// Clients returns the live clients ordered by handle.
func (g *GXFrameNet) Clients() []*GXNetClient {
	g.mu.RLock()
	list := make([]*GXNetClient, 0, len(g.clients))
	for _, c := range g.clients {
		list = append(list, c)
	}
	g.mu.RUnlock()
	slices.SortFunc(list, func(a, b *GXNetClient) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return list
}

// client returns the live client with the given remote address.
func (g *GXFrameNet) client(receiver string) *GXNetClient {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.clients {
		if c.String() == receiver {
			return c
		}
	}
	return nil
}

// clientEnded moves c from the live registry to the dead client queue and
// ends the sessions routed through it. Only the first caller for a client
// does this; it returns false for the others.
func (g *GXFrameNet) clientEnded(c *GXNetClient) bool {
	g.mu.Lock()
	if c.state != ClientStateActive {
		g.mu.Unlock()
		return false
	}
	c.alive.Store(false)
	c.state = ClientStateEndObserved
	delete(g.clients, c.id)
	g.dying[c.id] = c
	deadClients.push(g, c.id)
	g.wakeReaper()
	g.mu.Unlock()

	if c.span != nil {
		c.span.AddEvent("end_observed")
	}
	g.metrics.clientEnded()
	for _, err := range c.endSessions() {
		g.errorf(true, err)
	}
	g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.client_ended", c.String()))
	return true
}

// wakeReaper must be called with g.mu held.
func (g *GXFrameNet) wakeReaper() {
	if g.wake == nil {
		return
	}
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// reap releases the dead clients of g. Workers of each client are joined
// before it is freed. It returns the number of released clients.
func (g *GXFrameNet) reap() int {
	g.reapMu.Lock()
	defer g.reapMu.Unlock()
	n := 0
	for _, id := range deadClients.drain(g) {
		g.mu.Lock()
		c := g.dying[id]
		delete(g.dying, id)
		g.mu.Unlock()
		if c == nil {
			continue
		}
		if err := g.shutdown(c); err != nil {
			g.errorf(true, err)
			continue
		}
		c.wg.Wait()
		if err := g.free(c); err != nil {
			g.errorf(true, err)
			continue
		}
		g.metrics.clientReaped()
		g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.client_reaped", c.String()))
		n++
	}
	return n
}

// reaper releases dead clients whenever one is queued.
func (g *GXFrameNet) reaper(stop, wake <-chan struct{}) {
	defer g.wg.Done()
	for {
		select {
		case <-stop:
			return
		case <-wake:
			g.reap()
		}
	}
}

// acceptor accepts clients until the listener is closed.
func (g *GXFrameNet) acceptor(ln net.Listener, stop <-chan struct{}) {
	defer g.wg.Done()
	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-stop:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.connection_failed", err))
			g.errorf(true, err)
			// Back off on resource exhaustion, such as running out of descriptors.
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, time.Second)
			}
			select {
			case <-stop:
				return
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		g.accept(conn)
		g.reap()
	}
}

func (g *GXFrameNet) accept(conn net.Conn) {
	host, _ := splitAddr(conn.RemoteAddr())
	g.mu.RLock()
	filter := g.filter
	g.mu.RUnlock()
	if filter != nil && !filter(g, host) {
		_ = conn.Close()
		g.metrics.clientRejected()
		g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.client_rejected", conn.RemoteAddr().String()))
		return
	}
	c := newGXNetClient(g)
	if err := g.startup(c, conn); err != nil {
		_ = conn.Close()
		g.errorf(true, err)
	}
}

// listen opens the listener and starts the acceptor and the reaper.
// g.mu must be held.
func (g *GXFrameNet) listen(network, address string) error {
	ln, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	g.listener = ln
	g.wake = make(chan struct{}, 1)
	g.wg.Add(2)
	go g.acceptor(ln, g.stop)
	go g.reaper(g.stop, g.wake)
	return nil
}

// closeServer stops accepting, ends every client and releases them.
func (g *GXFrameNet) closeServer() error {
	g.mu.Lock()
	ln := g.listener
	g.listener = nil
	g.mu.Unlock()
	var err error
	if ln != nil {
		err = ln.Close()
	}
	for _, c := range g.Clients() {
		_ = c.Close()
	}
	g.wg.Wait()
	g.reap()
	return err
}
