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

package wire

import (
	"github.com/HisEgo/BlueprintHell/packet"
)

// ArrivalRadius is how close an on-wire packet must get to the destination
// port before it is considered to have arrived (spec.md §4.3).
const ArrivalRadius = 5.0

// TransferPacket implements one tick's worth of the two single-step
// transitions in spec.md §4.3:
//  1. source port -> wire, if the wire has room.
//  2. wire -> destination port, if the on-wire packet has arrived and the
//     destination port is free.
//
// It returns the packet that just arrived at the destination port, if any,
// so the caller can check whether that destination belongs to a reference
// system and finalize delivery (spec.md §4.3 step 2, §4.6).
func (w *WireConnection) TransferPacket() (arrived *packet.Packet) {
	if w.SourcePort.CurrentPacket != nil && w.SourcePort.CurrentPacket.Active && w.CanAccept() {
		pkt := w.SourcePort.Release()
		w.acceptOntoWire(pkt)
	}

	if w.OnWire != nil && w.OnWire.Active {
		dist := w.OnWire.CurrentPosition.DistanceTo(w.DestinationPort.Position)
		if dist <= ArrivalRadius && w.DestinationPort.CurrentPacket == nil {
			pkt := w.OnWire
			w.OnWire = nil
			pkt.CurrentWire = nil
			pkt.CoinAwardPending = true
			w.DestinationPort.Accept(pkt)
			arrived = pkt
		}
	}
	return
}

func (w *WireConnection) acceptOntoWire(pkt *packet.Packet) {
	pkt.EntryCompatible = w.SourcePort.IsCompatibleWithPacket(pkt)
	id := w.ID
	pkt.CurrentWire = &id
	pkt.PathProgress = 0
	pkt.TravelTime = 0
	pkt.CurrentPosition = w.path.PositionAtProgress(0)

	speed, _ := pkt.SpeedAndAcceleration(len(w.Bends) > 0)
	pkt.BaseSpeed = speed
	pkt.MovementVector = w.path.TangentAtProgress(0).Scale(speed)

	w.OnWire = pkt
	if pkt.Kind.IsBulk() {
		w.RegisterBulkPassage()
	}
}

// UpdatePacketMovement advances the wire's single on-wire packet by dt,
// applying its acceleration profile, constraining it back onto the path,
// and marking it lost if it has drifted more than offWireThreshold from the
// path (spec.md §4.3/§8). A packet that is lost off-path or exceeds its
// travel time is taken off the wire; delivery is a separate TransferPacket
// call.
func (w *WireConnection) UpdatePacketMovement(dt, offWireThreshold float64) {
	pkt := w.OnWire
	if pkt == nil {
		return
	}
	if !pkt.Active {
		w.OnWire = nil
		return
	}

	// Drift is measured before the position is re-derived from PathProgress,
	// which would otherwise put the packet back on the path.
	if _, drift, _ := w.path.ClosestPoint(pkt.CurrentPosition); drift > offWireThreshold {
		pkt.Lost = true
		pkt.Active = false
		w.OnWire = nil
		return
	}

	_, accel := pkt.SpeedAndAcceleration(len(w.Bends) > 0)
	if accel != 0 {
		pkt.BaseSpeed += accel * dt
		if pkt.BaseSpeed < 0 {
			pkt.BaseSpeed = 0
		}
	}

	length := w.path.Length()
	if length <= 0 {
		length = 1
	}
	distanceThisTick := pkt.BaseSpeed * dt
	deflected := pkt.AdvanceBulkDeflection(distanceThisTick)

	pkt.PathProgress += distanceThisTick / length
	if pkt.PathProgress > 1 {
		pkt.PathProgress = 1
	}
	if pkt.PathProgress < 0 {
		pkt.PathProgress = 0
	}

	targetPos := w.path.PositionAtProgress(pkt.PathProgress)
	tangent := w.path.TangentAtProgress(pkt.PathProgress)
	movement := tangent.Scale(pkt.BaseSpeed)
	if deflected {
		movement = movement.Add(tangent.Perp().Scale(pkt.BaseSpeed * 0.25))
	}
	pkt.MovementVector = movement
	pkt.CurrentPosition = targetPos
	pkt.TravelTime += dt
	if pkt.TravelTime > pkt.MaxTravelTime {
		pkt.Active = false
		w.OnWire = nil
		return
	}

	proj, dist, progress := w.path.ClosestPoint(pkt.CurrentPosition)
	if dist > offWireThreshold {
		pkt.Lost = true
		pkt.Active = false
		w.OnWire = nil
		return
	}
	pkt.CurrentPosition = proj
	pkt.PathProgress = progress
}
