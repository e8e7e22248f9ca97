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
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gurux/gxcommon-go"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FrameHandler is called for every received frame in wire order.
// Client is nil for frames received in direct mode.
type FrameHandler func(m *GXFrameNet, client *GXNetClient, frame *GXFrameBuffer)

// GXFrameNet is a frame based network media.
//
// In server mode it listens and serves many clients. Otherwise it
// connects directly to one peer.
type GXFrameNet struct {
	Protocol NetworkType
	HostName string
	Port     int
	// Server defines if the media listens for clients.
	Server bool
	// UseIPv6 defines if IPv6 is used. Default is False (IPv4).
	UseIPv6 bool
	// MaxFrameSize is the largest accepted payload. Zero accepts all frames.
	MaxFrameSize int

	// Connection timeout in milliseconds.
	timeout time.Duration
	eop     any

	// The trace level specifies which types of trace messages are emitted.
	traceLevel gxcommon.TraceLevel

	mu sync.RWMutex
	wg sync.WaitGroup

	// Direct mode socket.
	conn   net.Conn
	reader *bufio.Reader
	txMu   sync.Mutex
	tx     txBuffer

	// Server mode.
	listener net.Listener
	filter   ClientFilter
	clients  map[uint64]*GXNetClient
	dying    map[uint64]*GXNetClient
	wake     chan struct{}
	reapMu   sync.Mutex

	stop        chan struct{}
	synchronous bool

	bytesSent     atomic.Uint64
	bytesReceived atomic.Uint64

	//Called when the Media state is changed.
	onState gxcommon.MediaStateHandler

	//Called when the new data is received.
	onReceive gxcommon.ReceivedEventHandler

	//Called when the Media is sending or receiving data.
	onTrace gxcommon.TraceEventHandler

	//Called when an error occurs on a background goroutine.
	onErr gxcommon.ErrorEventHandler

	//Called for every received frame.
	onFrame FrameHandler

	received *synchronousMediaBase
	metrics  *GXMetrics

	// Printer for localized messages.
	p *message.Printer
}

// NewGXFrameNet creates a direct mode media connecting to host and port.
func NewGXFrameNet(protocol NetworkType, hostName string, port int) *GXFrameNet {
	g := &GXFrameNet{
		Protocol: protocol,
		HostName: hostName,
		Port:     port,
		stop:     make(chan struct{}),
		timeout:  time.Duration(10000) * time.Millisecond,
		clients:  make(map[uint64]*GXNetClient),
		dying:    make(map[uint64]*GXNetClient),
		received: newGXSynchronousMediaBase(),
	}
	g.Localize(language.AmericanEnglish)
	return g
}

// NewGXFrameNetServer creates a server mode media listening on host and port.
func NewGXFrameNetServer(protocol NetworkType, hostName string, port int) *GXFrameNet {
	g := NewGXFrameNet(protocol, hostName, port)
	g.Server = true
	return g
}

// String implements IGXMedia
func (g *GXFrameNet) String() string {
	if g.Protocol == NetworkTypeUnix {
		return g.HostName
	}
	return net.JoinHostPort(g.HostName, strconv.Itoa(g.Port))
}

// GetName implements IGXMedia
func (g *GXFrameNet) GetName() string {
	return g.String()
}

// IsOpen implements IGXMedia
func (g *GXFrameNet) IsOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.conn != nil || g.listener != nil
}

// Addr returns the local address of the listener or of the direct socket.
// It is nil when the media is closed.
func (g *GXFrameNet) Addr() net.Addr {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.listener != nil {
		return g.listener.Addr()
	}
	if g.conn != nil {
		return g.conn.LocalAddr()
	}
	return nil
}

// Copy implements IGXMedia
func (g *GXFrameNet) Copy(target gxcommon.IGXMedia) error {
	switch dst := target.(type) {
	case *GXFrameNet:
		dst.timeout = g.timeout
		dst.Protocol = g.Protocol
		dst.HostName = g.HostName
		dst.Port = g.Port
		dst.Server = g.Server
		dst.UseIPv6 = g.UseIPv6
		dst.MaxFrameSize = g.MaxFrameSize
		dst.traceLevel = g.traceLevel
		dst.eop = g.eop
	default:
		return fmt.Errorf("copy: target is %T; want *GXFrameNet", target)
	}
	return nil
}

// GetMediaType implements IGXMedia
func (g *GXFrameNet) GetMediaType() string {
	return "FrameNet"
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// GetSettings implements IGXMedia
func (g *GXFrameNet) GetSettings() string {
	var b strings.Builder
	if g.HostName != "" {
		fmt.Fprintf(&b, "<IP>%s</IP>\n", xmlEscape(g.HostName))
	}
	if g.Port != 0 {
		fmt.Fprintf(&b, "<Port>%d</Port>\n", g.Port)
	}
	if g.Protocol != NetworkTypeTCP {
		fmt.Fprintf(&b, "<Protocol>%d</Protocol>\n", int(g.Protocol))
	}
	if g.Server {
		b.WriteString("<Server>1</Server>\n")
	}
	if g.UseIPv6 {
		b.WriteString("<IPv6>1</IPv6>\n")
	}
	if g.MaxFrameSize != 0 {
		fmt.Fprintf(&b, "<MaxFrameSize>%d</MaxFrameSize>\n", g.MaxFrameSize)
	}
	return b.String()
}

// SetSettings implements IGXMedia
func (g *GXFrameNet) SetSettings(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	dec := xml.NewDecoder(strings.NewReader("<root>" + value + "</root>"))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local == "root" {
			continue
		}
		var v string
		if err := dec.DecodeElement(&v, &se); err != nil {
			return err
		}
		v = strings.TrimSpace(v)
		switch se.Name.Local {
		case "Protocol":
			if n, err := strconv.Atoi(v); err == nil {
				g.Protocol = NetworkType(n)
			}
		case "Port":
			if n, err := strconv.Atoi(v); err == nil {
				g.Port = n
			}
		case "Server":
			g.Server = v == "1"
		case "IP":
			g.HostName = v
		case "IPv6":
			g.UseIPv6 = v == "1"
		case "MaxFrameSize":
			if n, err := strconv.Atoi(v); err == nil {
				g.MaxFrameSize = n
			}
		}
	}
	return nil
}

// GetSynchronous implements IGXMedia
func (g *GXFrameNet) GetSynchronous() func() {
	g.mu.Lock()
	g.synchronous = true
	g.mu.Unlock()
	return func() {
		g.mu.Lock()
		g.synchronous = false
		g.mu.Unlock()
	}
}

// IsSynchronous implements IGXMedia
func (g *GXFrameNet) IsSynchronous() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.synchronous
}

// ResetSynchronousBuffer implements IGXMedia
func (g *GXFrameNet) ResetSynchronousBuffer() {
	g.received.Reset()
}

// GetBytesSent implements IGXMedia
func (g *GXFrameNet) GetBytesSent() uint64 {
	return g.bytesSent.Load()
}

// GetBytesReceived implements IGXMedia
func (g *GXFrameNet) GetBytesReceived() uint64 {
	return g.bytesReceived.Load()
}

// ResetByteCounters implements IGXMedia
func (g *GXFrameNet) ResetByteCounters() {
	g.bytesSent.Store(0)
	g.bytesReceived.Store(0)
}

// Validate implements IGXMedia
func (g *GXFrameNet) Validate() error {
	switch g.Protocol {
	case NetworkTypeTCP:
		if g.Port < 0 || g.Port > 0xFFFF {
			return fmt.Errorf("%w: port %d", ErrInvalidArgument, g.Port)
		}
		if !g.Server && (g.HostName == "" || g.Port == 0) {
			return fmt.Errorf("%w: host name and port are required", ErrMissingParam)
		}
	case NetworkTypeUnix:
		if g.HostName == "" {
			return fmt.Errorf("%w: socket path is required", ErrMissingParam)
		}
	default:
		return fmt.Errorf("%w: protocol %d", gxcommon.ErrUnknownEnum, int(g.Protocol))
	}
	if g.MaxFrameSize < 0 || g.MaxFrameSize > MaxPayloadLength {
		return fmt.Errorf("%w: max frame size %d", ErrInvalidArgument, g.MaxFrameSize)
	}
	return nil
}

// SetEop implements IGXMedia
func (g *GXFrameNet) SetEop(eop any) {
	g.eop = eop
}

// GetEop implements IGXMedia
func (g *GXFrameNet) GetEop() any {
	return g.eop
}

// GetTimeout returns the connection timeout in milliseconds.
func (g *GXFrameNet) GetTimeout() uint32 {
	return uint32(g.timeout / time.Millisecond)
}

// SetTimeout sets the connection timeout in milliseconds.
func (g *GXFrameNet) SetTimeout(value uint32) error {
	g.timeout = time.Duration(value) * time.Millisecond
	return nil
}

// GetTrace implements IGXMedia
func (g *GXFrameNet) GetTrace() gxcommon.TraceLevel {
	return g.traceLevel
}

// SetTrace implements IGXMedia
func (g *GXFrameNet) SetTrace(traceLevel gxcommon.TraceLevel) error {
	g.mu.Lock()
	g.traceLevel = traceLevel
	g.mu.Unlock()
	return nil
}

// SetOnReceived implements IGXMedia
func (g *GXFrameNet) SetOnReceived(value gxcommon.ReceivedEventHandler) {
	g.mu.Lock()
	g.onReceive = value
	g.mu.Unlock()
}

// SetOnError implements IGXMedia
func (g *GXFrameNet) SetOnError(value gxcommon.ErrorEventHandler) {
	g.mu.Lock()
	g.onErr = value
	g.mu.Unlock()
}

// SetOnMediaStateChange implements IGXMedia
func (g *GXFrameNet) SetOnMediaStateChange(value gxcommon.MediaStateHandler) {
	g.mu.Lock()
	g.onState = value
	g.mu.Unlock()
}

// SetOnTrace implements IGXMedia
func (g *GXFrameNet) SetOnTrace(value gxcommon.TraceEventHandler) {
	g.mu.Lock()
	g.onTrace = value
	g.mu.Unlock()
}

// SetOnFrame sets the handler called for every received frame.
func (g *GXFrameNet) SetOnFrame(value FrameHandler) {
	g.mu.Lock()
	g.onFrame = value
	g.mu.Unlock()
}

// SetMetrics sets the collectors updated by the media. Nil disables metrics.
func (g *GXFrameNet) SetMetrics(value *GXMetrics) {
	g.mu.Lock()
	g.metrics = value
	g.mu.Unlock()
}

func (g *GXFrameNet) address() string {
	if g.Protocol == NetworkTypeUnix {
		return g.HostName
	}
	return net.JoinHostPort(g.HostName, strconv.Itoa(g.Port))
}

// Open implements IGXMedia
//
// In server mode Open starts listening. Otherwise it connects to the peer.
func (g *GXFrameNet) Open() error {
	if err := g.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn != nil || g.listener != nil {
		return nil
	}
	select {
	case <-g.stop:
		g.stop = make(chan struct{})
	default:
	}
	g.statef(false, gxcommon.MediaStateOpening)
	network := g.Protocol.network(g.UseIPv6)
	if g.Server {
		if err := g.listen(network, g.address()); err != nil {
			g.trace(false, gxcommon.TraceTypesError, g.p.Sprintf("msg.listen_failed", g.String(), err))
			g.errorf(false, err)
			return err
		}
		g.trace(false, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.listening", g.listener.Addr().String()))
		g.statef(false, gxcommon.MediaStateOpen)
		return nil
	}
	g.trace(false, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.connecting_to", g.Protocol.String(), g.String(), g.timeout.Milliseconds()))
	c, err := net.DialTimeout(network, g.address(), g.timeout)
	if err != nil {
		g.trace(false, gxcommon.TraceTypesError, g.p.Sprintf("msg.connect_failed", g.String(), err))
		g.errorf(false, err)
		return err
	}
	g.conn = c
	g.reader = bufio.NewReader(c)
	g.wg.Add(1)
	go g.receiver(g.stop, c)

	g.trace(false, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.connected_to", g.String()))
	g.statef(false, gxcommon.MediaStateOpen)
	return nil
}

// Send implements IGXMedia
//
// Data is sent as one frame. In server mode receiver selects the client
// by its remote address; an empty receiver sends to every client and
// fails with gxcommon.ErrConnectionClosed when no client is connected.
func (g *GXFrameNet) Send(data any, receiver string) error {
	tmp, err := gxcommon.ToBytes(data, binary.BigEndian)
	if err != nil {
		return err
	}
	if len(tmp) > MaxPayloadLength {
		return fmt.Errorf("%w: payload length %d exceeds %d", ErrInvalidArgument, len(tmp), MaxPayloadLength)
	}
	buf := NewGXFrameBuffer(tmp)
	g.mu.RLock()
	c := g.conn
	server := g.listener != nil
	g.mu.RUnlock()
	if server {
		return g.sendToClients(buf, receiver)
	}
	if c == nil {
		return gxcommon.ErrConnectionClosed
	}
	//Trace data.
	str, err := gxcommon.ToString(data)
	if err != nil {
		return err
	}
	g.tracef(true, gxcommon.TraceTypesSent, "TX: %s", str)

	g.txMu.Lock()
	defer g.txMu.Unlock()
	if g.timeout > 0 {
		_ = c.SetWriteDeadline(time.Now().Add(g.timeout))
	}
	return g.netTx(nil, buf)
}

func (g *GXFrameNet) sendToClients(buf *GXFrameBuffer, receiver string) error {
	if receiver != "" {
		c := g.client(receiver)
		if c == nil {
			return fmt.Errorf("%w: %s", ErrInvalidArgument, g.p.Sprintf("msg.unknown_receiver", receiver))
		}
		return c.Send(buf)
	}
	list := g.Clients()
	if len(list) == 0 {
		return gxcommon.ErrConnectionClosed
	}
	var errs []error
	for _, c := range list {
		if err := c.Send(buf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Receive implements IGXMedia
func (g *GXFrameNet) Receive(args *gxcommon.ReceiveParameters) (bool, error) {
	if args.EOP == nil && args.Count == 0 && !args.AllData {
		return false, errors.New(g.p.Sprintf("msg.count_or_eop"))
	}
	terminator, err := gxcommon.ToBytes(args.EOP, binary.BigEndian)
	if err != nil {
		return false, err
	}

	var waitTime time.Duration
	if args.WaitTime <= 0 {
		waitTime = 0
	} else {
		waitTime = time.Duration(args.WaitTime) * time.Millisecond
	}
	index := g.received.Search(terminator, args.Count, waitTime)
	if index == -1 {
		return false, nil
	}

	if args.AllData {
		//Read all data.
		index = -1
	}
	args.Reply, err = gxcommon.BytesToAny2(g.received.Get(index), args.ReplyType, binary.ByteOrder(binary.BigEndian))
	if err != nil {
		return false, err
	}
	return true, nil
}

// handleFrame raises a received frame. Client is nil in direct mode.
func (g *GXFrameNet) handleFrame(client *GXNetClient, frame *GXFrameBuffer) {
	sender := g.String()
	if client != nil {
		sender = client.String()
	}
	g.tracef(true, gxcommon.TraceTypesReceived, "RX %s: %s", sender, frame.String())
	g.mu.RLock()
	h := g.onFrame
	synchronous := g.synchronous
	g.mu.RUnlock()
	if h != nil {
		h(g, client, frame)
	}
	if synchronous {
		g.received.Append(frame.Data)
	} else {
		g.receivef(true, frame.Data, sender)
	}
}

// receiver reads frames from the direct socket.
func (g *GXFrameNet) receiver(stop <-chan struct{}, conn net.Conn) {
	defer g.wg.Done()
	for {
		f, err := g.netRx(nil)
		if err == nil {
			g.handleFrame(nil, f)
			continue
		}
		select {
		case <-stop:
			return
		default:
		}
		if errors.Is(err, ErrOutOfMemory) {
			g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.frame_dropped", g.String(), err))
			g.errorf(true, err)
			continue
		}
		g.connectionLost(conn, err)
		return
	}
}

// connectionLost closes the direct socket after the peer closed it or
// a read failed. Nothing is done if Close has already taken the socket.
func (g *GXFrameNet) connectionLost(conn net.Conn, err error) {
	g.mu.Lock()
	if g.conn != conn {
		g.mu.Unlock()
		return
	}
	g.conn = nil
	g.reader = nil
	g.mu.Unlock()
	_ = conn.Close()
	if errors.Is(err, ErrEndOfStream) {
		g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.peer_closed", g.String()))
	} else {
		g.trace(true, gxcommon.TraceTypesError, g.p.Sprintf("msg.connection_failed", err))
	}
	g.errorf(true, fmt.Errorf("%w: %w", gxcommon.ErrConnectionClosed, err))
	g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.connection_closed", g.String()))
	g.statef(true, gxcommon.MediaStateClosed)
}

func (g *GXFrameNet) receivef(lock bool, data []byte, sender string) {
	var cb gxcommon.ReceivedEventHandler
	if lock {
		g.mu.RLock()
		cb = g.onReceive
		g.mu.RUnlock()
	} else {
		cb = g.onReceive
	}
	if cb != nil {
		cb(g, *gxcommon.NewReceiveEventArgs(data, sender))
	}
}

func (g *GXFrameNet) errorf(lock bool, err error) {
	var cb gxcommon.ErrorEventHandler
	if lock {
		g.mu.RLock()
		cb = g.onErr
		g.mu.RUnlock()
	} else {
		cb = g.onErr
	}
	if cb != nil {
		cb(g, err)
	}
}

func (g *GXFrameNet) tracef(lock bool, traceType gxcommon.TraceTypes, fmtStr string, a ...any) {
	var cb gxcommon.TraceEventHandler
	trace := false
	if lock {
		g.mu.RLock()
		trace = !(int(g.traceLevel) < int(traceType))
		cb = g.onTrace
		g.mu.RUnlock()
	} else {
		trace = !(int(g.traceLevel) < int(traceType))
		cb = g.onTrace
	}
	if cb != nil && trace {
		p := gxcommon.NewTraceEventArgs(traceType, fmt.Sprintf(fmtStr, a...), "")
		var m gxcommon.IGXMedia = g
		cb(m, *p)
	}
}

func (g *GXFrameNet) trace(lock bool, traceType gxcommon.TraceTypes, message string) {
	g.tracef(lock, traceType, "%s", message)
}

func (g *GXFrameNet) statef(lock bool, state gxcommon.MediaState) {
	var cb gxcommon.MediaStateHandler
	if lock {
		g.mu.RLock()
		cb = g.onState
		g.mu.RUnlock()
	} else {
		cb = g.onState
	}
	if cb != nil {
		cb(g, *gxcommon.NewMediaStateEventArgs(state))
	}
}

// Close implements IGXMedia
//
// In server mode every client is ended and released before Close returns.
// Close must not be called from an event handler.
func (g *GXFrameNet) Close() error {
	g.mu.Lock()
	opened := g.conn != nil || g.listener != nil
	select {
	case <-g.stop:
		// already closed
	default:
		if opened {
			g.trace(false, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.closing_connection", g.String()))
			g.statef(false, gxcommon.MediaStateClosing)
		}
		close(g.stop)
	}
	conn := g.conn
	g.conn = nil
	server := g.listener != nil
	g.mu.Unlock()

	var err error
	if server {
		err = g.closeServer()
	} else if conn != nil {
		// Make sure the receiver goroutine is not blocked on read.
		_ = conn.SetReadDeadline(time.Now())
		err = conn.Close()
		g.wg.Wait()
		g.mu.Lock()
		g.reader = nil
		g.mu.Unlock()
	}
	if opened {
		g.trace(true, gxcommon.TraceTypesInfo, g.p.Sprintf("msg.connection_closed", g.String()))
		g.statef(true, gxcommon.MediaStateClosed)
	}
	return err
}

//nolint:errcheck
func init() {
	// --- English (default) ---
	message.SetString(language.AmericanEnglish, "msg.closing_connection", "Closing connection to %s")
	message.SetString(language.AmericanEnglish, "msg.connection_closed", "Connection closed to %s")
	message.SetString(language.AmericanEnglish, "msg.connection_failed", "Connection failed: %v")
	message.SetString(language.AmericanEnglish, "msg.count_or_eop", "Either Count or EOP must be set")
	message.SetString(language.AmericanEnglish, "msg.connected_to", "Connected to %s")
	message.SetString(language.AmericanEnglish, "msg.connect_failed", "connect to %s failed: %v")
	message.SetString(language.AmericanEnglish, "msg.connecting_to", "%s connecting to %s timeout %d ms")
	message.SetString(language.AmericanEnglish, "msg.listening", "Listening on %s")
	message.SetString(language.AmericanEnglish, "msg.listen_failed", "listen on %s failed: %v")
	message.SetString(language.AmericanEnglish, "msg.client_accepted", "Client %s connected")
	message.SetString(language.AmericanEnglish, "msg.client_rejected", "Client %s rejected")
	message.SetString(language.AmericanEnglish, "msg.client_ended", "Client %s disconnected")
	message.SetString(language.AmericanEnglish, "msg.client_reaped", "Client %s released")
	message.SetString(language.AmericanEnglish, "msg.peer_closed", "%s closed the connection")
	message.SetString(language.AmericanEnglish, "msg.frame_dropped", "Frame from %s dropped: %v")
	message.SetString(language.AmericanEnglish, "msg.unknown_receiver", "unknown receiver %q")

	// --- German (de) ---
	message.SetString(language.German, "msg.closing_connection", "Verbindung zu %s wird geschlossen")
	message.SetString(language.German, "msg.connection_closed", "Verbindung zu %s wurde geschlossen")
	message.SetString(language.German, "msg.connection_failed", "Verbindung fehlgeschlagen: %v")
	message.SetString(language.German, "msg.count_or_eop", "Entweder Count oder EOP muss gesetzt sein")
	message.SetString(language.German, "msg.connected_to", "Verbunden mit %s")
	message.SetString(language.German, "msg.connect_failed", "Verbindung zu %s fehlgeschlagen: %v")
	message.SetString(language.German, "msg.connecting_to", "%s verbindet sich mit %s timeout %d ms")
	message.SetString(language.German, "msg.listening", "Warte auf Verbindungen an %s")
	message.SetString(language.German, "msg.listen_failed", "Warten auf Verbindungen an %s fehlgeschlagen: %v")
	message.SetString(language.German, "msg.client_accepted", "Client %s verbunden")
	message.SetString(language.German, "msg.client_rejected", "Client %s abgewiesen")
	message.SetString(language.German, "msg.client_ended", "Client %s getrennt")
	message.SetString(language.German, "msg.client_reaped", "Client %s freigegeben")
	message.SetString(language.German, "msg.peer_closed", "%s hat die Verbindung geschlossen")
	message.SetString(language.German, "msg.frame_dropped", "Frame von %s verworfen: %v")
	message.SetString(language.German, "msg.unknown_receiver", "unbekannter Empfänger %q")

	// --- Finnish (fi) ---
	message.SetString(language.Finnish, "msg.closing_connection", "Suljetaan yhteys kohteeseen %s")
	message.SetString(language.Finnish, "msg.connection_closed", "Yhteys suljettu kohteeseen %s")
	message.SetString(language.Finnish, "msg.connection_failed", "Yhteyden muodostus epäonnistui: %v")
	message.SetString(language.Finnish, "msg.count_or_eop", "Joko Count tai EOP on asetettava")
	message.SetString(language.Finnish, "msg.connected_to", "Yhdistetty kohteeseen %s")
	message.SetString(language.Finnish, "msg.connect_failed", "Yhteyden muodostus kohteeseen %s epäonnistui: %v")
	message.SetString(language.Finnish, "msg.connecting_to", "%s yhdistetään kohteeseen %s timeout %d ms")
	message.SetString(language.Finnish, "msg.listening", "Kuunnellaan osoitetta %s")
	message.SetString(language.Finnish, "msg.listen_failed", "Osoitteen %s kuuntelu epäonnistui: %v")
	message.SetString(language.Finnish, "msg.client_accepted", "Asiakas %s yhdistetty")
	message.SetString(language.Finnish, "msg.client_rejected", "Asiakas %s hylätty")
	message.SetString(language.Finnish, "msg.client_ended", "Asiakkaan %s yhteys katkesi")
	message.SetString(language.Finnish, "msg.client_reaped", "Asiakas %s vapautettu")
	message.SetString(language.Finnish, "msg.peer_closed", "%s sulki yhteyden")
	message.SetString(language.Finnish, "msg.frame_dropped", "Kehys kohteesta %s hylätty: %v")
	message.SetString(language.Finnish, "msg.unknown_receiver", "tuntematon vastaanottaja %q")

	// --- Swedish (sv) ---
	message.SetString(language.Swedish, "msg.closing_connection", "Stänger anslutning till %s")
	message.SetString(language.Swedish, "msg.connection_closed", "Anslutning stängd till %s")
	message.SetString(language.Swedish, "msg.connection_failed", "Anslutningen misslyckades: %v")
	message.SetString(language.Swedish, "msg.count_or_eop", "Antingen Count eller EOP måste anges")
	message.SetString(language.Swedish, "msg.connected_to", "Ansluten till %s")
	message.SetString(language.Swedish, "msg.connect_failed", "Anslutning till %s misslyckades: %v")
	message.SetString(language.Swedish, "msg.connecting_to", "%s ansluter till %s timeout %d ms")
	message.SetString(language.Swedish, "msg.listening", "Lyssnar på %s")
	message.SetString(language.Swedish, "msg.listen_failed", "Lyssning på %s misslyckades: %v")
	message.SetString(language.Swedish, "msg.client_accepted", "Klient %s ansluten")
	message.SetString(language.Swedish, "msg.client_rejected", "Klient %s avvisad")
	message.SetString(language.Swedish, "msg.client_ended", "Klient %s frånkopplad")
	message.SetString(language.Swedish, "msg.client_reaped", "Klient %s frigjord")
	message.SetString(language.Swedish, "msg.peer_closed", "%s stängde anslutningen")
	message.SetString(language.Swedish, "msg.frame_dropped", "Ram från %s kastad: %v")
	message.SetString(language.Swedish, "msg.unknown_receiver", "okänd mottagare %q")
}

// Localize messages for the specified language.
// No errors is returned if language is not supported.
func (g *GXFrameNet) Localize(language language.Tag) {
	g.p = message.NewPrinter(language)
}
