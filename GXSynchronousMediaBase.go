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
	"sync"
	"time"
)

// synchronousMediaBase buffers received payloads while the media is
// in synchronous mode.
type synchronousMediaBase struct {
	mu      sync.Mutex
	data    []byte
	changed chan struct{}
}

func newGXSynchronousMediaBase() *synchronousMediaBase {
	return &synchronousMediaBase{changed: make(chan struct{})}
}

// Append adds data and wakes up waiting readers.
func (s *synchronousMediaBase) Append(data []byte) {
	s.mu.Lock()
	s.data = append(s.data, data...)
	close(s.changed)
	s.changed = make(chan struct{})
	s.mu.Unlock()
}

// Search waits until eop is received or count bytes are available and
// returns the number of bytes to read. With neither eop nor count any
// buffered data is enough. Zero wait waits forever. It returns -1 on timeout.
func (s *synchronousMediaBase) Search(eop []byte, count int, wait time.Duration) int {
	var timeout <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timeout = t.C
	}
	for {
		s.mu.Lock()
		index := s.find(eop, count)
		changed := s.changed
		s.mu.Unlock()
		if index != -1 {
			return index
		}
		select {
		case <-changed:
		case <-timeout:
			return -1
		}
	}
}

func (s *synchronousMediaBase) find(eop []byte, count int) int {
	if len(eop) != 0 {
		if pos := bytes.Index(s.data, eop); pos != -1 {
			return pos + len(eop)
		}
	}
	if count > 0 && len(s.data) >= count {
		return count
	}
	if len(eop) == 0 && count <= 0 && len(s.data) != 0 {
		return len(s.data)
	}
	return -1
}

// Get removes and returns the first index bytes. A negative index returns all data.
func (s *synchronousMediaBase) Get(index int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index > len(s.data) {
		index = len(s.data)
	}
	ret := bytes.Clone(s.data[:index])
	s.data = append(s.data[:0], s.data[index:]...)
	return ret
}

// Reset drops buffered data.
func (s *synchronousMediaBase) Reset() {
	s.mu.Lock()
	s.data = s.data[:0]
	s.mu.Unlock()
}

// Size returns the number of buffered bytes.
func (s *synchronousMediaBase) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
