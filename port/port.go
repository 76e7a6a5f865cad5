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

// Package port implements the single-capacity typed endpoints that systems
// expose (spec.md §4.2). Ports reference their owning system by id rather
// than by pointer (spec.md §9).
package port

import (
	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
)

// Shape is a port's connector shape. All shapes may connect to all shapes;
// shape only affects packet compatibility, never wire-creation refusal
// (spec.md §3).
type Shape int

const (
	Square Shape = iota
	Triangle
	Hexagon
)

func (s Shape) String() string {
	switch s {
	case Square:
		return "SQUARE"
	case Triangle:
		return "TRIANGLE"
	case Hexagon:
		return "HEXAGON"
	default:
		return "UNKNOWN"
	}
}

// Port is a single-packet-capacity endpoint on a system.
type Port struct {
	Shape           Shape
	IsInput         bool
	ParentSystemID  ids.SystemID
	Position        geometry.Point2D
	RelativeOffset  geometry.Vec2D
	IsConnected     bool
	CurrentPacket   *packet.Packet
}

// CanAcceptPacket reports whether the port has a free slot for an active
// packet (spec.md §4.2).
func (p *Port) CanAcceptPacket(pkt *packet.Packet) bool {
	return p.CurrentPacket == nil && pkt != nil && pkt.Active
}

// IsCompatibleWithPacket implements the shape/kind compatibility predicate
// of spec.md §4.2. Compatibility only ever affects movement-policy choices
// (speed, acceleration, priority); it never refuses packet acceptance.
func (p *Port) IsCompatibleWithPacket(pkt *packet.Packet) bool {
	kind := pkt.Kind
	if kind == packet.KindProtected && pkt.Protected != nil {
		kind = pkt.Protected.CurrentKind
	}
	switch kind {
	case packet.KindSmallMessenger:
		return p.Shape == Hexagon
	case packet.KindSquareMessenger:
		return p.Shape == Square
	case packet.KindTriangleMessenger:
		return p.Shape == Triangle
	default:
		// Confidential / ConfidentialProtected / Bulk* / Bit / Trojan /
		// Protected-without-state: always compatible (spec.md §4.2).
		return true
	}
}

// Accept places pkt into the port's slot. Caller must have already checked
// CanAcceptPacket.
func (p *Port) Accept(pkt *packet.Packet) {
	p.CurrentPacket = pkt
}

// Release clears the port's slot and returns the packet that was in it, if
// any.
func (p *Port) Release() *packet.Packet {
	pkt := p.CurrentPacket
	p.CurrentPacket = nil
	return pkt
}
