// Package gxframenet provides a frame based network media for Gurux components.
// It carries the binary device protocol over byte stream sockets: every frame
// starts with the sync byte 0x7E followed by a two byte big-endian payload
// length and the payload.
//
//	7E 00 02 41 54    payload "AT"
//
// The media implements the common IGXMedia-style contract: open/close,
// send/receive frames and emit events for received data, errors, tracing
// and state changes.
//
// Features
//
//   - Protocols: TCP and Unix domain stream sockets (see NetworkType).
//   - Direct mode: one connection to a peer.
//   - Server mode: many concurrent clients with an optional client filter.
//   - Tolerates partial reads and disconnects in the middle of a frame.
//   - Reuses one transmit buffer per connection.
//   - Tracing: configurable trace level for sent/received/error/info.
//   - Metrics: optional Prometheus collectors (see GXMetrics).
//   - Spans: one OpenTelemetry span per client connection.
//
// # Construction
//
// Use NewGXFrameNet to connect to a peer, or NewGXFrameNetServer to listen
// for clients.
//
// Example
//
//	media := gxframenet.NewGXFrameNetServer(gxframenet.NetworkTypeTCP, "", 4059)
//	media.SetClientFilter(func(m *gxframenet.GXFrameNet, remoteHost string) bool {
//	    return remoteHost == "127.0.0.1"
//	})
//	media.SetOnFrame(func(m *gxframenet.GXFrameNet, c *gxframenet.GXNetClient, f *gxframenet.GXFrameBuffer) {
//	    // echo back to the sender
//	    _ = c.Send(f)
//	})
//	if err := media.Open(); err != nil {
//	    // handle listen error
//	}
//	defer media.Close()
//
// # Clients
//
// Every client runs three goroutines: a receiver reading frames, a
// dispatcher raising them in wire order and a writer sending queued frames
// in submission order. When a client stream ends the client leaves the live
// registry, the sessions attached to it are ended and it is queued on a
// process wide dead client queue. Only the reaper of the owning media
// releases the client, after all its goroutines have exited.
//
// # Errors
//
// Framing and transmission errors are returned to the caller or routed to
// Error handlers. ErrEndOfStream reports a peer that closed the stream and
// is not a failure. Frames larger than MaxFrameSize are skipped and reported
// with ErrOutOfMemory without closing the connection.
//
// In direct mode a lost peer closes the media: an error wrapping
// gxcommon.ErrConnectionClosed is raised, followed by the Closed state.
//
// # Notes
//
// The zero value of GXFrameNet is not ready for use; always construct via
// NewGXFrameNet or NewGXFrameNetServer. Long-running work in event handlers
// should be offloaded to a separate goroutine to avoid blocking I/O paths.
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
