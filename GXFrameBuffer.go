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

import "fmt"

// GXFrameBuffer is one frame payload.
// Data always holds exactly Length bytes.
type GXFrameBuffer struct {
	Length int
	Data   []byte
}

// NewGXFrameBuffer returns a frame buffer that takes ownership of data.
func NewGXFrameBuffer(data []byte) *GXFrameBuffer {
	if data == nil {
		data = []byte{}
	}
	return &GXFrameBuffer{Length: len(data), Data: data}
}

// String returns the payload as hex.
func (f *GXFrameBuffer) String() string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("% X", f.Data)
}
