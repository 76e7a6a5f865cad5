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

package engine

import (
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/system"
)

// _processInjections implements spec.md §4.7 step 2: every due, unexecuted
// injection attempts placement on its source system's outgoing port
// (compatible ports first, then any connected, usable one). A successful
// placement adds the packet to ActivePackets and marks the injection
// executed; a failure leaves it pending for a later tick (spec.md §7's
// PacketPlacementDeferred — not an error).
func (e *Engine) _processInjections() {
	for _, inj := range e.lvl.PacketSchedule {
		if inj.Executed || inj.Time > e.st.TemporalProgress {
			continue
		}
		src, ok := e.lvl.Systems[inj.SourceID]
		if !ok || !src.IsUsable() {
			continue
		}

		pkt := e.newInjectedPacket(inj.PacketType, src)
		outputs := e.buildOutputCandidates(src, pkt)
		chosen := system.ChooseOutputPort(outputs, e.rng)
		if chosen == nil {
			continue
		}
		if !chosen.Compatible {
			pkt.ExitThroughIncompatiblePort()
		}
		chosen.Port.Accept(pkt)

		inj.Executed = true
		e.st.ActivePackets = append(e.st.ActivePackets, pkt)
		e.st.Stats.TotalInjected.Add(1)
	}
}

// newInjectedPacket builds the packet a schedule entry describes. A
// scheduled Protected injection has no "original messenger" of its own in
// spec.md §6's PacketInjection shape, so — consistent with ProtectedPacket
// wrapping a messenger type everywhere else in spec.md §4.4 — it wraps a
// uniformly random messenger kind at creation.
func (e *Engine) newInjectedPacket(kind packet.Kind, src *system.System) *packet.Packet {
	if kind == packet.KindProtected {
		original := packet.MessengerKinds[e.rng.Intn(len(packet.MessengerKinds))]
		return packet.NewProtected(original, src.Position)
	}
	return packet.New(kind, src.Position)
}
