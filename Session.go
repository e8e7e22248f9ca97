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

import "github.com/Gurux/gxcommon-go"

// Session is a protocol session routed through a client connection.
// End is called once when the connection ends so the session can
// release its resources.
type Session interface {
	End() error
}

// Attach routes s through the client.
// It fails if the client connection has already ended.
func (c *GXNetClient) Attach(s Session) error {
	if s == nil {
		return ErrMissingParam
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.alive.Load() {
		return gxcommon.ErrConnectionClosed
	}
	c.sessions = append(c.sessions, s)
	return nil
}

// Detach removes s from the client without ending it.
func (c *GXNetClient) Detach(s Session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.sessions {
		if it == s {
			c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Sessions returns the sessions currently routed through the client.
func (c *GXNetClient) Sessions() []Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Session(nil), c.sessions...)
}

// endSessions detaches and ends every session.
func (c *GXNetClient) endSessions() []error {
	c.mu.Lock()
	list := c.sessions
	c.sessions = nil
	c.mu.Unlock()
	var errs []error
	for _, s := range list {
		if err := s.End(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
