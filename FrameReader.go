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
	"errors"
	"fmt"
	"io"
	"net"
)

const (
	// SyncByte starts every frame.
	SyncByte byte = 0x7E
	// MaxPayloadLength is the largest payload the length field can carry.
	MaxPayloadLength = 0xFFFF
	// Sync byte and two length bytes.
	headerSize = 3
)

// ReadFrame reads one frame from r.
//
// Bytes before the sync byte are discarded. maxSize is the size of the
// receive buffer; zero or a value above MaxPayloadLength means
// MaxPayloadLength. A frame with a larger payload is skipped and
// ErrOutOfMemory is returned, leaving r at the start of the next frame.
//
// A closed stream returns ErrEndOfStream, other read failures wrap ErrIO.
func ReadFrame(r io.Reader, maxSize int) (*GXFrameBuffer, error) {
	if r == nil {
		return nil, ErrMissingParam
	}
	if maxSize <= 0 || maxSize > MaxPayloadLength {
		maxSize = MaxPayloadLength
	}
	var hdr [2]byte
	for {
		if err := readFull(r, hdr[:1]); err != nil {
			return nil, err
		}
		if hdr[0] == SyncByte {
			break
		}
	}
	if err := readFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(hdr[:]))
	if n > maxSize {
		if err := discard(r, n); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: frame length %d exceeds %d", ErrOutOfMemory, n, maxSize)
	}
	data := make([]byte, n)
	if err := readFull(r, data); err != nil {
		return nil, err
	}
	return &GXFrameBuffer{Length: n, Data: data}, nil
}

// readFull fills p, resuming from the last offset after a short read.
// A read that returns no data and no error is treated as a closed stream.
func readFull(r io.Reader, p []byte) error {
	for pos := 0; pos < len(p); {
		n, err := r.Read(p[pos:])
		pos += n
		if pos == len(p) {
			return nil
		}
		if err != nil {
			return streamError(err)
		}
		if n == 0 {
			return ErrEndOfStream
		}
	}
	return nil
}

func discard(r io.Reader, n int) error {
	var chunk [512]byte
	for n > 0 {
		k := min(n, len(chunk))
		if err := readFull(r, chunk[:k]); err != nil {
			return err
		}
		n -= k
	}
	return nil
}

func streamError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed) {
		return ErrEndOfStream
	}
	return fmt.Errorf("%w: %w", ErrIO, err)
}

// netRx reads one frame from the client socket, or from the direct socket
// when c is nil.
//
// When a client stream ends, the client is moved to the dead client queue
// and all sessions routed through it are ended before ErrEndOfStream is returned.
func (g *GXFrameNet) netRx(c *GXNetClient) (*GXFrameBuffer, error) {
	if g == nil {
		return nil, ErrMissingParam
	}
	var r io.Reader
	if c != nil {
		if c.owner != g {
			return nil, ErrInvalidArgument
		}
		if c.reader != nil {
			r = c.reader
		}
	} else {
		g.mu.RLock()
		if g.reader != nil {
			r = g.reader
		}
		g.mu.RUnlock()
	}
	if r == nil {
		return nil, ErrMissingParam
	}
	f, err := ReadFrame(r, g.MaxFrameSize)
	if err != nil {
		if !errors.Is(err, ErrEndOfStream) {
			g.metrics.frameError(err)
		} else if c != nil {
			g.clientEnded(c)
		}
		return nil, err
	}
	g.bytesReceived.Add(uint64(headerSize + f.Length))
	g.metrics.frameReceived(f.Length)
	return f, nil
}
