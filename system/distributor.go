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

// processDistributor implements DistributorSystem (spec.md §4.6): ordinary
// packets are handled exactly like NormalSystem. Bulk packets instead take
// the bulk side-effects, then get split into `size` Bit packets sharing the
// bulk's id and a color, buffered in the system's unlimited storage to drain
// out on later ticks via the normal output-selection priority. The consumed
// bulk packet is marked Transformed, not lost: it deliberately ends its life
// as this packet, on purpose, to become its bits.
func (s *System) processDistributor(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	if !pkt.Kind.IsBulk() {
		return s.ProcessDefault(pkt, outputs, ctx)
	}

	s.applyBulkSideEffects(pkt, ctx)
	color := ctx.Rand.Intn(1 << 24)
	bits := make([]*packet.Packet, 0, pkt.Size)
	for i := 0; i < pkt.Size; i++ {
		bit := packet.New(packet.KindBit, pkt.CurrentPosition)
		bit.Bulk = &packet.BulkState{BulkPacketID: pkt.ID, Color: color, OriginalSize: pkt.Size}
		s.StorePacket(bit)
		bits = append(bits, bit)
	}
	pkt.Active = false
	pkt.Transformed = true
	return ProcessResult{Destroyed: true, SpawnedPackets: bits}
}
