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

import "errors"

var (
	// ErrMissingParam is returned when a required argument is nil.
	ErrMissingParam = errors.New("gxframenet: missing parameter")
	// ErrInvalidArgument is returned when a client does not belong to the media
	// it is used with, or when a value cannot be represented on the wire.
	ErrInvalidArgument = errors.New("gxframenet: invalid argument")
	// ErrOutOfMemory is returned when a frame does not fit the receive buffer
	// or the transmit scratch buffer cannot grow.
	ErrOutOfMemory = errors.New("gxframenet: out of memory")
	// ErrIO wraps socket read and write failures.
	ErrIO = errors.New("gxframenet: i/o failure")
	// ErrEndOfStream is returned when the peer closed the stream.
	// It is a normal termination signal, not a failure.
	ErrEndOfStream = errors.New("gxframenet: end of stream")
	// ErrClientState is returned when a lifecycle operation is applied
	// to a client in the wrong state.
	ErrClientState = errors.New("gxframenet: invalid client state")
)
