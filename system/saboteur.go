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

// processSaboteur implements SaboteurSystem (spec.md §4.6): reverts
// Protected packets first, forces a minimum noise level, rolls a chance to
// convert to Trojan (Protected packets excluded from that roll), then
// routes only to an empty incompatible output port; with none free the
// packet is stored, or destroyed if storage is full.
func (s *System) processSaboteur(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	wasProtected := pkt.Kind == packet.KindProtected
	if wasProtected {
		pkt.RevertToOriginal()
	}
	if pkt.NoiseLevel == 0 {
		pkt.NoiseLevel = 1
	}
	if !wasProtected && ctx.Rand.Float64() < 0.3 {
		pkt.ConvertToTrojan()
	}

	var incompatible []OutputCandidate
	for _, o := range outputs {
		if o.Usable && o.Port.CurrentPacket == nil && !o.Compatible {
			incompatible = append(incompatible, o)
		}
	}
	if len(incompatible) > 0 {
		chosen := incompatible[ctx.Rand.Intn(len(incompatible))]
		chosen.Port.Accept(pkt)
		pkt.ExitThroughIncompatiblePort()
		return ProcessResult{PlacedOnPort: chosen.Port}
	}
	if s.StorePacket(pkt) {
		return ProcessResult{Stored: true}
	}
	pkt.Active = false
	return ProcessResult{Destroyed: true}
}
