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

import "github.com/HisEgo/BlueprintHell/packet"

// _cleanup implements spec.md §4.7 step 11: every packet that is inactive
// or meets a loss condition (spec.md §4.4's noise/travel-time rules, which
// are not necessarily caught the instant they occur) is counted lost exactly
// once, removed from ActivePackets and detached from whatever wire still
// references it; delivered packets and packets a Distributor/Merger
// deliberately transformed into other packets are removed without counting
// as lost. Packet-loss percentage and end conditions are then evaluated.
func (e *Engine) _cleanup() {
	kept := e.st.ActivePackets[:0]
	for _, pkt := range e.st.ActivePackets {
		if pkt.IsLost() {
			pkt.Active = false
		}
		if pkt.Active {
			kept = append(kept, pkt)
			continue
		}
		e.detachFromWire(pkt)
		if !pkt.Delivered && !pkt.Transformed {
			e.st.Stats.LostPacketsCount.Add(1)
		}
	}
	e.st.ActivePackets = kept

	e.evaluateEndConditions()
}

// detachFromWire clears a terminated packet out of the wire slot that may
// still reference it (spec.md invariant 3: a packet belongs to exactly one
// location set, and cleanup is where that set becomes "removed").
func (e *Engine) detachFromWire(pkt *packet.Packet) {
	if pkt.CurrentWire == nil {
		return
	}
	if w, ok := e.lvl.Wires[*pkt.CurrentWire]; ok && w.OnWire == pkt {
		w.OnWire = nil
	}
	pkt.CurrentWire = nil
}
