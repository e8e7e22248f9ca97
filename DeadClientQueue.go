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

import "sync"

// deadClient is a handle to a client waiting to be reaped by its owner.
type deadClient struct {
	owner *GXFrameNet
	id    uint64
}

// deadClientQueue holds the clients of all medias whose stream has ended.
// Workers only push; each media drains its own entries.
type deadClientQueue struct {
	mu    sync.Mutex
	items []deadClient
}

// deadClients is shared by every media in the process.
var deadClients = &deadClientQueue{}

func (q *deadClientQueue) push(owner *GXFrameNet, id uint64) {
	q.mu.Lock()
	q.items = append(q.items, deadClient{owner: owner, id: id})
	q.mu.Unlock()
}

// drain removes and returns the handles owned by owner in queue order.
func (q *deadClientQueue) drain(owner *GXFrameNet) []uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	var ret []uint64
	kept := q.items[:0]
	for _, it := range q.items {
		if it.owner == owner {
			ret = append(ret, it.id)
		} else {
			kept = append(kept, it)
		}
	}
	clear(q.items[len(kept):])
	q.items = kept
	return ret
}
