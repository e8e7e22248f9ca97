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
	"fmt"
	"strings"

	"github.com/Gurux/gxcommon-go"
)

// ClientState is the lifecycle state of a connected client.
//
// A client moves Allocated -> Active -> EndObserved -> ShutDown -> Freed.
// Only the reaper moves a client out of EndObserved.
type ClientState int

const (
	// ClientStateAllocated is a client without socket or workers.
	ClientStateAllocated ClientState = iota
	// ClientStateActive is a client with running workers in the live registry.
	ClientStateActive
	// ClientStateEndObserved is a client whose end of stream was observed.
	// It is queued for reaping and its socket may still be open.
	ClientStateEndObserved
	// ClientStateShutDown is a client whose workers were told to stop
	// and whose socket is closed.
	ClientStateShutDown
	// ClientStateFreed is a released client.
	ClientStateFreed
)

// ClientStateParse converts the given string into a ClientState value.
func ClientStateParse(value string) (ClientState, error) {
	var ret ClientState
	var err error
	switch strings.ToUpper(value) {
	case "ALLOCATED":
		ret = ClientStateAllocated
	case "ACTIVE":
		ret = ClientStateActive
	case "ENDOBSERVED":
		ret = ClientStateEndObserved
	case "SHUTDOWN":
		ret = ClientStateShutDown
	case "FREED":
		ret = ClientStateFreed
	default:
		err = fmt.Errorf("%w: %q", gxcommon.ErrUnknownEnum, value)
	}
	return ret, err
}

// String returns the canonical name of the client state.
func (g ClientState) String() string {
	var ret string
	switch g {
	case ClientStateAllocated:
		ret = "Allocated"
	case ClientStateActive:
		ret = "Active"
	case ClientStateEndObserved:
		ret = "EndObserved"
	case ClientStateShutDown:
		ret = "ShutDown"
	case ClientStateFreed:
		ret = "Freed"
	}
	return ret
}
