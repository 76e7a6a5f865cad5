// Copyright 2021 The Matrix.org Foundation C.I.C.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package system

import (
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

// processSpy implements SpySystem (spec.md §4.6): confidential packets are
// destroyed outright, protected packets revert to their original messenger
// kind and are processed normally, and everything else has a uniform chance
// of being teleported to any Spy system in the level (self included).
func (s *System) processSpy(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	if pkt.Kind == packet.KindConfidential {
		pkt.Active = false
		pkt.Lost = true
		return ProcessResult{Destroyed: true}
	}
	if pkt.Kind == packet.KindProtected {
		pkt.RevertToOriginal()
		return s.ProcessDefault(pkt, outputs, ctx)
	}

	pool := ctx.OtherSystemsOfKind
	if len(pool) == 0 {
		pool = []*System{s}
	}
	target := pool[ctx.Rand.Intn(len(pool))]
	if target == s {
		return s.ProcessDefault(pkt, outputs, ctx)
	}
	return target.teleportReceive(pkt)
}

// teleportReceive places a teleported packet directly onto the target
// system's output side, bypassing its input ports entirely — which is why
// no coin is awarded for a teleport hop (spec.md §4.6: coins are awarded
// only when a packet lands in an input port).
func (s *System) teleportReceive(pkt *packet.Packet) ProcessResult {
	var compatible, any []*port.Port
	for _, p := range s.OutputPorts {
		if p.CurrentPacket != nil {
			continue
		}
		any = append(any, p)
		if p.IsCompatibleWithPacket(pkt) {
			compatible = append(compatible, p)
		}
	}
	var chosen *port.Port
	switch {
	case len(compatible) > 0:
		chosen = compatible[0]
	case len(any) > 0:
		chosen = any[0]
	}
	if chosen != nil {
		chosen.Accept(pkt)
		return ProcessResult{TeleportedTo: s, PlacedOnPort: chosen}
	}
	if s.StorePacket(pkt) {
		return ProcessResult{TeleportedTo: s, Stored: true}
	}
	pkt.Active = false
	return ProcessResult{Destroyed: true}
}
