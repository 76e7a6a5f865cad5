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

import "github.com/HisEgo/BlueprintHell/packet"

// processMerger implements MergerSystem (spec.md §4.6): non-Bit packets are
// handled exactly like NormalSystem. Bit packets are absorbed into a
// per-bulk-id group; once a group holds as many bits as its source bulk
// packet's original size, it is reassembled into a fresh bulk packet (Large
// if 10 or more bits, Small otherwise) and routed with normal priority. Every
// absorbed bit is marked Transformed, not lost: it deliberately ends its life
// as this packet, on purpose, to become part of the reassembled bulk. The
// reassembled bulk itself is a new packet the caller must register into
// ActivePackets (ProcessResult.SpawnedPackets); if it never reaches a port or
// storage it is genuinely lost, not transformed, so it is left unmarked.
func (s *System) processMerger(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	if pkt.Kind != packet.KindBit || pkt.Bulk == nil {
		return s.ProcessDefault(pkt, outputs, ctx)
	}

	groupID := pkt.Bulk.BulkPacketID
	required := pkt.Bulk.OriginalSize
	pkt.Active = false
	pkt.Transformed = true

	group := append(s.mergerGroups[groupID], pkt)
	if len(group) < required {
		s.mergerGroups[groupID] = group
		return ProcessResult{Destroyed: true}
	}
	delete(s.mergerGroups, groupID)

	kind := packet.KindBulkSmall
	if len(group) >= 10 {
		kind = packet.KindBulkLarge
	}
	rebuilt := packet.New(kind, s.Position)
	rebuilt.Size = len(group)
	rebuilt.MovementVector = group[0].MovementVector

	chosen := choosePort(outputs, ctx.Rand)
	if chosen == nil {
		if s.StorePacket(rebuilt) {
			return ProcessResult{Stored: true, SpawnedPackets: []*packet.Packet{rebuilt}}
		}
		rebuilt.Active = false
		return ProcessResult{Destroyed: true, SpawnedPackets: []*packet.Packet{rebuilt}}
	}
	if !chosen.Compatible {
		rebuilt.ExitThroughIncompatiblePort()
	}
	chosen.Port.Accept(rebuilt)
	return ProcessResult{PlacedOnPort: chosen.Port, SpawnedPackets: []*packet.Packet{rebuilt}}
}
