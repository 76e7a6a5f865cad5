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

// processVPN implements VPNSystem (spec.md §4.6): wraps incoming messengers
// into Protected packets and upgrades Confidential to ConfidentialProtected,
// then routes normally.
func (s *System) processVPN(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	if pkt.Kind.IsMessenger() {
		pkt.ConvertToProtected(pkt.Kind)
	} else if pkt.Kind == packet.KindConfidential {
		pkt.ConvertToConfidentialProtected()
	}
	return s.ProcessDefault(pkt, outputs, ctx)
}

// FailVPN reverts every Protected packet currently held in this system's
// storage or ports back to its original messenger kind, the VPNSystem
// failure rule of spec.md §4.6.
func (s *System) FailVPN() {
	s.Fail()
	revert := func(pkt *packet.Packet) {
		if pkt != nil && pkt.Kind == packet.KindProtected && pkt.Protected != nil {
			pkt.Kind = pkt.Protected.OriginalKind
			pkt.Size = packet.BaseSize(pkt.Kind)
			pkt.CoinValue = packet.BaseCoinValue(pkt.Kind)
			pkt.Protected = nil
		}
	}
	for _, pkt := range s.Storage {
		revert(pkt)
	}
	for _, p := range s.InputPorts {
		revert(p.CurrentPacket)
	}
	for _, p := range s.OutputPorts {
		revert(p.CurrentPacket)
	}
}
