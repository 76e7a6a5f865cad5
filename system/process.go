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

import (
	"math"
	"math/rand"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

// OutputCandidate describes one of a system's output ports as a routing
// target, with facts the engine has already resolved from the wire graph
// (keeping this package free of a dependency on the wire/level packages).
type OutputCandidate struct {
	Port       *port.Port
	Compatible bool
	// Usable is true when the port's wire is active & non-destroyed and the
	// wire's destination system is itself usable (spec.md §4.6 step 4).
	Usable bool
}

// ProcessContext carries the per-call environment a policy needs beyond the
// System and Packet themselves: the shared RNG (spec.md §9), level-wide
// flags, and (for Spy) the other candidate systems of the same kind.
type ProcessContext struct {
	Rand     *rand.Rand
	Tutorial bool

	ConfidentialTargetDistance float64

	// OtherPacketPositions is populated by the engine with the current
	// position of every other active packet network-wide, consulted by
	// ConfidentialProtected's target-distance maintenance (spec.md §4.4/§9).
	OtherPacketPositions []geometry.Point2D

	// OtherSystemsOfKind is populated by the engine for policies that must
	// reach across the level graph: Spy (teleport target pool).
	OtherSystemsOfKind []*System
}

// ProcessResult reports what happened to a packet handed to ProcessPacket,
// so the engine can award coins, track damage/failure, and route wire
// pushes without this package reaching back into the wire/level packages.
type ProcessResult struct {
	PlacedOnPort *port.Port // set if the packet was placed directly on an output port
	Stored       bool       // packet buffered in storage
	Destroyed    bool       // packet destroyed/lost (noise, no room, spy confidential rule, ...)
	TeleportedTo *System    // Spy: packet was teleported to another system's output, bypassing ports
	Damaged      bool       // system deactivated itself from speed damage

	// SpawnedPackets are new packets this call created that did not exist in
	// the engine's ActivePackets before this call (Distributor's split bits,
	// Merger's reassembled bulk). The engine registers each into
	// ActivePackets so it participates in loss accounting and end-condition
	// checks the same way a scheduled injection does.
	SpawnedPackets []*packet.Packet
}

// ProcessPacket dispatches to the system's policy. Every variant that wants
// the shared/default behavior calls ProcessDefault directly (spec.md §9:
// "a standalone function invoked by variant implementations").
func (s *System) ProcessPacket(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	switch s.Kind {
	case KindReference:
		return s.processReference(pkt)
	case KindSpy:
		return s.processSpy(pkt, outputs, ctx)
	case KindSaboteur:
		return s.processSaboteur(pkt, outputs, ctx)
	case KindVPN:
		return s.processVPN(pkt, outputs, ctx)
	case KindDistributor:
		return s.processDistributor(pkt, outputs, ctx)
	case KindMerger:
		return s.processMerger(pkt, outputs, ctx)
	default:
		return s.ProcessDefault(pkt, outputs, ctx)
	}
}

// ProcessDefault implements NormalSystem's shared algorithm (spec.md §4.6
// "Shared processPacket"), reused directly by NormalSystem and as the
// fallback tail of every other policy once its own special-casing is done.
func (s *System) ProcessDefault(pkt *packet.Packet, outputs []OutputCandidate, ctx ProcessContext) ProcessResult {
	if pkt.MovementVector.Magnitude() > SpeedDamageThreshold && !ctx.Tutorial {
		s.Deactivate(SpeedDamageDeactivationTime)
		pkt.Active = false
		return ProcessResult{Destroyed: true, Damaged: true}
	}

	if pkt.Kind.IsBulk() {
		s.applyBulkSideEffects(pkt, ctx)
	}

	if pkt.Kind == packet.KindConfidential || pkt.Kind == packet.KindConfidentialProtected {
		if s.HasOtherPackets() {
			pkt.MovementVector = pkt.MovementVector.Scale(0.5)
		}
	}
	if pkt.Kind == packet.KindConfidentialProtected {
		adjustConfidentialProtectedSpacing(pkt, ctx)
	}

	chosen := choosePort(outputs, ctx.Rand)
	if chosen == nil {
		if s.StorePacket(pkt) {
			return ProcessResult{Stored: true}
		}
		pkt.Active = false
		return ProcessResult{Destroyed: true}
	}

	if !chosen.Compatible {
		pkt.ExitThroughIncompatiblePort()
	}
	chosen.Port.Accept(pkt)
	return ProcessResult{PlacedOnPort: chosen.Port}
}

// applyBulkSideEffects implements spec.md §4.4's bulk-entry rule: destroy
// every other stored packet and randomly mutate one port's shape.
func (s *System) applyBulkSideEffects(pkt *packet.Packet, ctx ProcessContext) {
	s.DestroyOtherStoredPackets()
	s.MutateRandomPortShape(
		func(n int) int { return ctx.Rand.Intn(n) },
		func(cur port.Shape) port.Shape {
			shapes := []port.Shape{port.Square, port.Triangle, port.Hexagon}
			for {
				next := shapes[ctx.Rand.Intn(len(shapes))]
				if next != cur {
					return next
				}
			}
		},
	)
}

// adjustConfidentialProtectedSpacing implements spec.md §4.4's
// ConfidentialProtected rule: "attempts to maintain a target distance from
// all other on-network packets by adjusting projection onto its wire's
// tangent" (spec.md §9: best-effort, target distance configurable). It sets
// SpacingRatio from the distance to the nearest other active packet versus
// ctx.ConfidentialTargetDistance, clamped so a single tick never more than
// halves or 1.5x's the packet's tangential speed; SpeedAndAcceleration then
// folds that ratio into the speed used to project the packet onto its wire's
// tangent on its next wire entry.
func adjustConfidentialProtectedSpacing(pkt *packet.Packet, ctx ProcessContext) {
	if ctx.ConfidentialTargetDistance <= 0 || len(ctx.OtherPacketPositions) == 0 {
		pkt.SpacingRatio = 1
		return
	}
	nearest := math.Inf(1)
	for _, pos := range ctx.OtherPacketPositions {
		if d := pkt.CurrentPosition.DistanceTo(pos); d < nearest {
			nearest = d
		}
	}
	ratio := nearest / ctx.ConfidentialTargetDistance
	switch {
	case ratio < 0.5:
		ratio = 0.5
	case ratio > 1.5:
		ratio = 1.5
	}
	pkt.SpacingRatio = ratio
}

// ChooseOutputPort exposes choosePort's priority selection to the engine
// package for its storage->output flush step (spec.md §4.6/§4.7 step 9),
// which needs the same priority rule outside of ProcessDefault's call site.
func ChooseOutputPort(outputs []OutputCandidate, rng *rand.Rand) *OutputCandidate {
	return choosePort(outputs, rng)
}

// choosePort implements spec.md §4.6 step 4's priority: an empty+compatible
// usable port first, then any empty usable port, with a random tie-break
// among equals.
func choosePort(outputs []OutputCandidate, rng *rand.Rand) *OutputCandidate {
	var compatible, any []OutputCandidate
	for _, o := range outputs {
		if !o.Usable || o.Port.CurrentPacket != nil {
			continue
		}
		any = append(any, o)
		if o.Compatible {
			compatible = append(compatible, o)
		}
	}
	pick := func(cands []OutputCandidate) *OutputCandidate {
		if len(cands) == 0 {
			return nil
		}
		c := cands[rng.Intn(len(cands))]
		return &c
	}
	if chosen := pick(compatible); chosen != nil {
		return chosen
	}
	return pick(any)
}
