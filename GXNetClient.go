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
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Gurux/gxcommon-go"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Frames read but not yet dispatched.
	clientRxQueueSize = 64
	// Frames submitted but not yet written.
	clientTxQueueSize = 64
)

var clientIDs atomic.Uint64

// GXNetClient is one client connected to a media in server mode.
//
// Each client runs three goroutines: a receiver that reads frames,
// a dispatcher that raises them in wire order and a writer that sends
// submitted frames in submission order.
type GXNetClient struct {
	id    uint64
	owner *GXFrameNet

	conn    net.Conn
	reader  *bufio.Reader
	address string
	port    int

	alive atomic.Bool
	// Guarded by owner.mu.
	state ClientState

	// Used only by the writer goroutine.
	tx txBuffer

	frames   chan *GXFrameBuffer
	outbound chan *GXFrameBuffer
	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Int32

	mu       sync.Mutex
	sessions []Session

	span trace.Span
}

// newGXNetClient allocates a client for g. It has no socket yet.
func newGXNetClient(g *GXFrameNet) *GXNetClient {
	return &GXNetClient{
		id:       clientIDs.Add(1),
		owner:    g,
		state:    ClientStateAllocated,
		frames:   make(chan *GXFrameBuffer, clientRxQueueSize),
		outbound: make(chan *GXFrameBuffer, clientTxQueueSize),
		stop:     make(chan struct{}),
	}
}

// String returns the remote address of the client.
func (c *GXNetClient) String() string {
	if c.port == 0 {
		return c.address
	}
	return net.JoinHostPort(c.address, strconv.Itoa(c.port))
}

// ID returns the handle of the client. Handles are unique in the process.
func (c *GXNetClient) ID() uint64 {
	return c.id
}

// Media returns the media the client belongs to.
func (c *GXNetClient) Media() *GXFrameNet {
	return c.owner
}

// Conn returns the client socket.
func (c *GXNetClient) Conn() net.Conn {
	return c.conn
}

// Address returns the remote host.
func (c *GXNetClient) Address() string {
	return c.address
}

// Port returns the remote port. It is zero for Unix sockets.
func (c *GXNetClient) Port() int {
	return c.port
}

// IsAlive returns false once the end of the client stream is observed.
func (c *GXNetClient) IsAlive() bool {
	return c.alive.Load()
}

// State returns the lifecycle state of the client.
func (c *GXNetClient) State() ClientState {
	c.owner.mu.RLock()
	defer c.owner.mu.RUnlock()
	return c.state
}

// Send queues buf to be written to the client.
// Frames are written in the order they are queued.
func (c *GXNetClient) Send(buf *GXFrameBuffer) error {
	if buf == nil {
		return ErrMissingParam
	}
	if buf.Length > MaxPayloadLength || buf.Length != len(buf.Data) {
		return ErrInvalidArgument
	}
	if !c.IsAlive() {
		return gxcommon.ErrConnectionClosed
	}
	select {
	case c.outbound <- buf:
		return nil
	case <-c.stop:
		return gxcommon.ErrConnectionClosed
	}
}

// Close ends the client connection. The client is released by the reaper
// of its media.
func (c *GXNetClient) Close() error {
	c.owner.clientEnded(c)
	if c.conn == nil {
		return nil
	}
	// Unblock the receiver and the writer.
	err := c.conn.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

func (c *GXNetClient) bind(conn net.Conn) {
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	c.address, c.port = splitAddr(conn.RemoteAddr())
}

// splitAddr returns the host and port of a remote address.
// Unix sockets have no port.
func splitAddr(addr net.Addr) (string, int) {
	if addr == nil {
		return "", 0
	}
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.IP.String(), a.Port
	case *net.UnixAddr:
		if a.Name == "" {
			return "@", 0
		}
		return a.Name, 0
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String(), 0
	}
	p, _ := strconv.Atoi(port)
	return host, p
}

func (c *GXNetClient) done() {
	c.running.Add(-1)
	c.wg.Done()
}

// receiver reads frames until the stream ends.
func (c *GXNetClient) receiver() {
	defer c.done()
	defer close(c.frames)
	g := c.owner
	for {
		f, err := g.netRx(c)
		if err == nil {
			c.frames <- f
			continue
		}
		if errors.Is(err, ErrOutOfMemory) {
			g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.frame_dropped", c.String(), err))
			g.errorf(true, err)
			continue
		}
		if errors.Is(err, ErrEndOfStream) {
			g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.peer_closed", c.String()))
		} else {
			g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.connection_failed", err))
			g.errorf(true, err)
			g.clientEnded(c)
		}
		return
	}
}

// dispatcher raises received frames in the order they were read.
func (c *GXNetClient) dispatcher() {
	defer c.done()
	for f := range c.frames {
		c.owner.handleFrame(c, f)
	}
}

// writer sends queued frames until the client is shut down.
func (c *GXNetClient) writer() {
	defer c.done()
	g := c.owner
	for {
		select {
		case <-c.stop:
			return
		case f := <-c.outbound:
			if err := g.netTx(c, f); err != nil {
				select {
				case <-c.stop:
				default:
					g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.connection_failed", err))
					g.errorf(true, err)
				}
				g.clientEnded(c)
				return
			}
			g.tracef(true, gxcommon.TraceTypesSent, "TX %s: %s", c.String(), f.String())
		}
	}
}

// startup binds conn to c, adds c to the live registry and starts
// its workers. On failure c is released and never becomes reachable.
func (g *GXFrameNet) startup(c *GXNetClient, conn net.Conn) error {
	if c == nil || conn == nil {
		return ErrMissingParam
	}
	if c.owner != g {
		return ErrInvalidArgument
	}
	g.mu.Lock()
	if c.state != ClientStateAllocated {
		g.mu.Unlock()
		return fmt.Errorf("%w: startup in state %s", ErrClientState, c.state)
	}
	if g.listener == nil {
		c.state = ClientStateFreed
		g.mu.Unlock()
		return gxcommon.ErrConnectionClosed
	}
	c.bind(conn)
	c.state = ClientStateActive
	c.alive.Store(true)
	g.clients[c.id] = c
	c.span = startClientSpan(g, c)
	c.running.Store(3)
	c.wg.Add(3)
	// Counted before any worker can end the client.
	g.metrics.clientStarted()
	g.mu.Unlock()

	go c.receiver()
	go c.dispatcher()
	go c.writer()
	g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.client_accepted", c.String()))
	return nil
}

// shutdown tells the workers of c to stop and closes its socket.
func (g *GXFrameNet) shutdown(c *GXNetClient) error {
	g.mu.Lock()
	if c.state != ClientStateEndObserved {
		state := c.state
		g.mu.Unlock()
		return fmt.Errorf("%w: shutdown in state %s", ErrClientState, state)
	}
	c.state = ClientStateShutDown
	g.mu.Unlock()
	c.stopOnce.Do(func() { close(c.stop) })
	if c.conn != nil {
		_ = c.conn.Close()
	}
	return nil
}

// free releases c. All its workers must have been joined.
func (g *GXFrameNet) free(c *GXNetClient) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c.state != ClientStateShutDown {
		return fmt.Errorf("%w: free in state %s", ErrClientState, c.state)
	}
	if n := c.running.Load(); n != 0 {
		return fmt.Errorf("%w: free with %d running workers", ErrClientState, n)
	}
	if _, ok := g.clients[c.id]; ok {
		return fmt.Errorf("%w: free of a registered client", ErrClientState)
	}
	c.state = ClientStateFreed
	c.tx = txBuffer{}
	c.reader = nil
	if c.span != nil {
		c.span.End()
	}
	return nil
}
