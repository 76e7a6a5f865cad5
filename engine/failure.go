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
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/system"
	"github.com/HisEgo/BlueprintHell/wire"
)

// _failSystem implements spec.md §4.6's permanent Failed transition: every
// packet en route to id on an active wire, and any packet already sitting
// in one of id's input ports, is returned to its source instead of being
// delivered or dropped.
func (e *Engine) _failSystem(id ids.SystemID) {
	s, ok := e.lvl.Systems[id]
	if !ok {
		return
	}
	if s.Kind == system.KindVPN {
		s.FailVPN()
	} else {
		s.Fail()
	}

	for _, w := range e.lvl.Wires {
		if !w.Active || w.DestinationSystemID != id {
			continue
		}
		if w.OnWire != nil && w.OnWire.Active {
			e.returnPacketToSource(w, w.OnWire)
		}
		if w.DestinationPort.CurrentPacket != nil {
			pkt := w.DestinationPort.Release()
			e.returnPacketToSource(w, pkt)
		}
	}
}

// returnPacketToSource implements the §4.6 "returnToSource" rule: reverse
// pathProgress to 1-p on the current wire and swap which system the packet
// is now heading toward.
func (e *Engine) returnPacketToSource(w *wire.WireConnection, pkt *packet.Packet) {
	pkt.PathProgress = 1 - pkt.PathProgress
	pkt.IsReversing = true
	src := w.SourceSystemID
	pkt.RetryDestination = &src
	pkt.CurrentPosition = w.Path().PositionAtProgress(pkt.PathProgress)
	tangent := w.Path().TangentAtProgress(pkt.PathProgress).Scale(-1)
	pkt.MovementVector = tangent.Scale(pkt.BaseSpeed)
	wid := w.ID
	pkt.CurrentWire = &wid
	w.OnWire = pkt
}
