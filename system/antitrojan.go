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

// ScanAndNeutralize implements AntiTrojanSystem's per-tick scan (spec.md
// §4.6/§4.7 step 7): every active Trojan packet within AntiTrojanScanRadius
// of this system is converted in place to a SquareMessenger at the same
// position and velocity. Only meaningful when s.Kind == KindAntiTrojan (it
// returns at once for other kinds); the engine calls it for every system
// each tick over the level's full active-packet set.
func (s *System) ScanAndNeutralize(activePackets []*packet.Packet) {
	if s.Kind != KindAntiTrojan || !s.IsUsable() {
		return
	}
	for _, pkt := range activePackets {
		if !pkt.Active || pkt.Kind != packet.KindTrojan {
			continue
		}
		if pkt.CurrentPosition.DistanceTo(s.Position) <= s.AntiTrojanScanRadius {
			pkt.ConvertToSquareMessenger()
		}
	}
}
