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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Gurux/gxcommon-go"
)

// txBuffer is the reusable transmit buffer of one destination.
// Its capacity never shrinks.
type txBuffer struct {
	data []byte
}

// frame builds the wire frame of payload into the buffer.
// The returned slice is valid until the next call.
func (b *txBuffer) frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayloadLength {
		return nil, fmt.Errorf("%w: payload length %d exceeds %d", ErrInvalidArgument, len(payload), MaxPayloadLength)
	}
	size := headerSize + len(payload)
	if cap(b.data) < size {
		b.data = make([]byte, size)
	}
	b.data = b.data[:size]
	b.data[0] = SyncByte
	binary.BigEndian.PutUint16(b.data[1:headerSize], uint16(len(payload)))
	copy(b.data[headerSize:], payload)
	return b.data, nil
}

// writeFrame frames payload and writes it to w.
func (b *txBuffer) writeFrame(w io.Writer, payload []byte) (int, error) {
	data, err := b.frame(payload)
	if err != nil {
		return 0, err
	}
	return writeAll(w, data)
}

// writeAll writes p to w, continuing after short writes from the
// last written offset.
func writeAll(w io.Writer, p []byte) (int, error) {
	pos := 0
	for pos < len(p) {
		n, err := w.Write(p[pos:])
		pos += n
		if err != nil {
			return pos, fmt.Errorf("%w: %w", ErrIO, err)
		}
		if n == 0 {
			return pos, fmt.Errorf("%w: %w", ErrIO, io.ErrShortWrite)
		}
	}
	return pos, nil
}

// WriteFrame writes one frame of payload to w.
// Use a GXFrameNet to reuse the transmit buffer between frames.
func WriteFrame(w io.Writer, payload []byte) error {
	if w == nil {
		return ErrMissingParam
	}
	var b txBuffer
	_, err := b.writeFrame(w, payload)
	return err
}

// netTx writes buf as one frame to the client socket, or to the direct
// socket when c is nil. Client frames use the client transmit buffer and
// must only be sent from the client writer. Direct frames use the media
// transmit buffer and the caller must hold txMu. A closed direct socket
// returns gxcommon.ErrConnectionClosed.
func (g *GXFrameNet) netTx(c *GXNetClient, buf *GXFrameBuffer) error {
	if g == nil || buf == nil {
		return ErrMissingParam
	}
	var w io.Writer
	var tx *txBuffer
	if c != nil {
		if c.owner != g {
			return ErrInvalidArgument
		}
		w = c.conn
		tx = &c.tx
	} else {
		g.mu.RLock()
		if g.conn != nil {
			w = g.conn
		}
		g.mu.RUnlock()
		if w == nil {
			return gxcommon.ErrConnectionClosed
		}
		tx = &g.tx
	}
	if w == nil {
		return ErrMissingParam
	}
	if buf.Length != len(buf.Data) {
		return fmt.Errorf("%w: frame length %d does not match %d data bytes", ErrInvalidArgument, buf.Length, len(buf.Data))
	}
	n, err := tx.writeFrame(w, buf.Data)
	g.bytesSent.Add(uint64(n))
	if err != nil {
		g.metrics.frameError(err)
		return err
	}
	g.metrics.frameSent(buf.Length)
	return nil
}
