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
	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/system"
)

// buildOutputCandidates turns a system's output ports into the routing
// candidates spec.md §4.6 step 4 picks among: a port is Usable only if its
// wire is active/non-destroyed and its destination system is itself usable.
// This is the one place the engine package bridges system's policy-facing
// OutputCandidate shape with the level/wire graph, keeping the system
// package free of a dependency on either.
func (e *Engine) buildOutputCandidates(s *system.System, pkt *packet.Packet) []system.OutputCandidate {
	outputs := make([]system.OutputCandidate, 0, len(s.OutputPorts))
	for _, p := range s.OutputPorts {
		w := e.lvl.WireFromSourcePort(p)
		usable := w != nil && w.Active && !w.Destroyed
		if usable {
			dst, ok := e.lvl.Systems[w.DestinationSystemID]
			usable = ok && dst.IsUsable()
		}
		outputs = append(outputs, system.OutputCandidate{
			Port:       p,
			Compatible: p.IsCompatibleWithPacket(pkt),
			Usable:     usable,
		})
	}
	return outputs
}

// processContext builds the shared ProcessContext a system.ProcessPacket
// call needs, refreshing the Spy teleport-target pool every call since
// systems can be added/removed between ticks in principle. self is the
// packet about to be processed (nil when there is none, e.g. reference
// finalization); for a ConfidentialProtected packet its network-wide
// neighbor positions are gathered for the target-distance rule (spec.md
// §4.4/§9).
func (e *Engine) processContext(forSpy bool, self *packet.Packet) system.ProcessContext {
	ctx := system.ProcessContext{
		Rand:                       e.rng,
		Tutorial:                   e.lvl.Tutorial,
		ConfidentialTargetDistance: e.lvl.Settings.ConfidentialTargetDistance,
	}
	if forSpy {
		ctx.OtherSystemsOfKind = e.lvl.SystemsOfKind(system.KindSpy)
	}
	if self != nil && self.Kind == packet.KindConfidentialProtected {
		positions := make([]geometry.Point2D, 0, len(e.st.ActivePackets))
		for _, p := range e.st.ActivePackets {
			if p == self || !p.Active {
				continue
			}
			positions = append(positions, p.CurrentPosition)
		}
		ctx.OtherPacketPositions = positions
	}
	return ctx
}

// awardCoin consumes pkt's pending coin award exactly once, the instant a
// packet lands in an input port (spec.md §4.6).
func (e *Engine) awardCoin(pkt *packet.Packet) {
	if pkt.CoinAwardPending {
		e.st.Stats.Coins.Add(int64(pkt.CoinValue))
		pkt.CoinAwardPending = false
	}
}
