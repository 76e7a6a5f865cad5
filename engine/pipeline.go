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
	"github.com/HisEgo/BlueprintHell/system"
)

// _wirePass drives every wire's TransferPacket once (spec.md §4.3/§4.7 steps
// 5 and 8): source-port->wire entry, and wire->destination-port delivery.
// A packet delivered straight into a ReferenceSystem's input port is
// finalized immediately rather than waiting for step 6's processInputs,
// per spec.md §4.3 step 2.
func (e *Engine) _wirePass() {
	for _, w := range e.lvl.Wires {
		if !w.Active {
			continue
		}
		arrived := w.TransferPacket()
		if arrived == nil {
			continue
		}
		dst, ok := e.lvl.Systems[w.DestinationSystemID]
		if !ok || dst.Kind != system.KindReference {
			continue
		}
		w.DestinationPort.Release()
		e.awardCoin(arrived)
		_ = dst.ProcessPacket(arrived, nil, e.processContext(false, arrived))
	}
}

// _processSystemInputs implements spec.md §4.7 step 6: every input port
// still holding a packet after the wire pass is released and handed to the
// system's ProcessPacket policy, awarding the pending coin at the instant of
// release.
func (e *Engine) _processSystemInputs() {
	for _, s := range e.lvl.Systems {
		if !s.IsUsable() {
			continue
		}
		for _, p := range s.InputPorts {
			if p.CurrentPacket == nil {
				continue
			}
			pkt := p.Release()
			e.awardCoin(pkt)
			if !pkt.Active {
				continue
			}
			outputs := e.buildOutputCandidates(s, pkt)
			result := s.ProcessPacket(pkt, outputs, e.processContext(s.Kind == system.KindSpy, pkt))
			if result.Damaged {
				e.log.Printf("system %s deactivated by speed damage", s.ID)
			}
			// Distributor bits and a Merger's reassembled bulk are new
			// packets the policy created mid-call; register them the way
			// _processInjections registers a scheduled spawn, so they
			// participate in loss accounting and end-condition checks
			// (spec.md §4.7/§4.8).
			e.st.ActivePackets = append(e.st.ActivePackets, result.SpawnedPackets...)
		}
	}
}

// _flushStorage implements spec.md §4.7 step 9: one stored packet per
// system per tick is moved onto an available output port.
func (e *Engine) _flushStorage() {
	for _, s := range e.lvl.Systems {
		if !s.IsUsable() || len(s.Storage) == 0 {
			continue
		}
		pkt := s.Storage[0]
		outputs := e.buildOutputCandidates(s, pkt)
		chosen := system.ChooseOutputPort(outputs, e.rng)
		if chosen == nil {
			continue
		}
		s.PopStorage()
		if !chosen.Compatible {
			pkt.ExitThroughIncompatiblePort()
		}
		chosen.Port.Accept(pkt)
	}
}
