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

package packet

import (
	"math/rand"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
)

// DefaultMaxTravelTime is spec.md §3's 30s packet lifetime ceiling.
const DefaultMaxTravelTime = 30.0

// ProtectedState tracks a Protected packet's wrapped original messenger kind
// and its currently-active movement kind, re-rolled on every new wire
// (spec.md §4.4).
type ProtectedState struct {
	OriginalKind Kind
	CurrentKind  Kind
}

// BulkState tracks the shared identity bit packets inherit from the bulk
// packet that spawned them (spec.md §4.4 DistributorSystem).
type BulkState struct {
	BulkPacketID ids.PacketID
	Color        int
	// DistanceTraveled tracks BulkLarge's periodic perpendicular deflection,
	// applied every 50 units of distance.
	DistanceTraveled float64
	// OriginalSize is the size of the bulk packet a Bit packet was split
	// from, the merge threshold MergerSystem waits for before reassembling
	// (spec.md §9 open question: "original bulk size").
	OriginalSize int
}

// Packet is the common kinematic/bookkeeping state shared by every variant
// (spec.md §3).
type Packet struct {
	ID   ids.PacketID
	Kind Kind

	Size      int
	CoinValue int

	NoiseLevel float64

	CurrentPosition geometry.Point2D
	MovementVector  geometry.Vec2D
	BaseSpeed       float64

	Active bool
	Lost   bool
	// Delivered marks a packet finalized by a ReferenceSystem sink, which
	// exempts it from cleanup's "active=false and never delivered" loss rule.
	Delivered bool
	// Transformed marks a packet consumed by a Distributor (split into Bit
	// packets) or absorbed into a Merger's reassembly group: it ends its life
	// as this packet on purpose, not by a loss rule, so cleanup exempts it the
	// same way it exempts Delivered.
	Transformed bool

	TravelTime    float64
	MaxTravelTime float64

	PathProgress float64
	CurrentWire  *ids.WireID

	IsReversing      bool
	RetryDestination *ids.SystemID

	CoinAwardPending bool

	SourcePosition      geometry.Point2D
	DestinationPosition geometry.Point2D

	// EntryCompatible remembers whether the port the packet entered its
	// current wire through was compatible, which selects the acceleration
	// profile for Small/Triangle/Protected messengers (spec.md §4.4/§4.5).
	EntryCompatible bool

	Protected *ProtectedState
	Bulk      *BulkState

	// SpacingRatio scales a ConfidentialProtected packet's speed to nudge it
	// toward maintaining Settings.ConfidentialTargetDistance from the nearest
	// other on-network packet (spec.md §4.4/§9). 1 means no adjustment.
	SpacingRatio float64
}

// New constructs a packet of the given kind at the given source position,
// with size/coin derived from the kind table (spec.md §3). Protected packets
// must be built with NewProtected instead, since their size depends on the
// wrapped messenger.
func New(kind Kind, source geometry.Point2D) *Packet {
	p := &Packet{
		ID:              ids.NewPacketID(),
		Kind:            kind,
		Size:            BaseSize(kind),
		CoinValue:       BaseCoinValue(kind),
		CurrentPosition: source,
		SourcePosition:  source,
		Active:          true,
		MaxTravelTime:   DefaultMaxTravelTime,
		SpacingRatio:    1,
	}
	if kind == KindTrojan {
		p.NoiseLevel = 1
	}
	if kind == KindBit {
		p.Bulk = &BulkState{}
	}
	return p
}

// NewProtected wraps a messenger kind into a Protected packet: size is 2x
// the wrapped messenger's base size, coin value is the fixed Protected value
// (spec.md §3).
func NewProtected(original Kind, source geometry.Point2D) *Packet {
	p := New(KindProtected, source)
	p.Size = 2 * BaseSize(original)
	p.CoinValue = BaseCoinValue(KindProtected)
	p.Protected = &ProtectedState{OriginalKind: original, CurrentKind: original}
	return p
}

// RerollMovementKind re-randomizes a Protected packet's current movement
// type among the three messenger kinds, called whenever it enters a new wire
// (spec.md §4.4).
func (p *Packet) RerollMovementKind(rng *rand.Rand) {
	if p.Protected == nil {
		return
	}
	p.Protected.CurrentKind = MessengerKinds[rng.Intn(len(MessengerKinds))]
}

// RevertToOriginal reverts a Protected packet's movement kind back to the
// kind it was originally wrapping (VPN failure, or passing through Spy /
// Saboteur per spec.md §4.6).
func (p *Packet) RevertToOriginal() {
	if p.Protected == nil {
		return
	}
	p.Protected.CurrentKind = p.Protected.OriginalKind
}

// EffectiveMessengerKind returns the messenger kind whose movement rules
// currently apply: the packet's own Kind for plain messengers, or the
// Protected wrapper's current rolled kind.
func (p *Packet) EffectiveMessengerKind() (Kind, bool) {
	if p.Kind.IsMessenger() {
		return p.Kind, true
	}
	if p.Kind == KindProtected && p.Protected != nil {
		return p.Protected.CurrentKind, true
	}
	return 0, false
}

// IsLost reports whether the packet currently meets any of spec.md §4.4's
// loss conditions: explicit lost flag, exceeded lifetime, or noise
// exceeding size (noise > size is lost; noise == size is not, per the
// boundary test in spec.md §8).
func (p *Packet) IsLost() bool {
	if p.Lost {
		return true
	}
	if p.TravelTime > p.MaxTravelTime {
		return true
	}
	if p.NoiseLevel > float64(p.Size) {
		return true
	}
	return false
}

// UpdatePosition advances the packet by movement*dt and its travel timer,
// deactivating it once it exceeds its max lifetime (spec.md §4.4).
func (p *Packet) UpdatePosition(dt float64) {
	if !p.Active {
		return
	}
	p.CurrentPosition = p.CurrentPosition.Add(p.MovementVector.Scale(dt))
	p.TravelTime += dt
	if p.TravelTime > p.MaxTravelTime {
		p.Active = false
	}
}

// ApplyShockwave applies a collision shockwave vector, with the type-specific
// reactions of spec.md §4.4: Small messengers and Bit packets reverse and
// flag a retry destination, Trojans gain extra noise, everything else simply
// absorbs the shockwave vector into its movement.
func (p *Packet) ApplyShockwave(v geometry.Vec2D, destination ids.SystemID) {
	switch {
	case p.Kind == KindSmallMessenger || p.Kind == KindBit:
		p.MovementVector = p.MovementVector.Scale(-1)
		p.IsReversing = true
		dst := destination
		p.RetryDestination = &dst
	case p.Kind == KindTrojan:
		p.NoiseLevel += 0.5
	case p.Kind == KindProtected && p.Protected != nil && p.Protected.CurrentKind == KindSmallMessenger:
		p.MovementVector = p.MovementVector.Scale(-1)
		p.IsReversing = true
		dst := destination
		p.RetryDestination = &dst
	default:
		p.MovementVector = p.MovementVector.Add(v)
	}
}

// ConvertToProtected wraps this packet (in place, preserving identity) into
// a Protected packet around the given original messenger kind (VPNSystem,
// spec.md §4.6), preserving noise/travel-time bookkeeping.
func (p *Packet) ConvertToProtected(original Kind) {
	p.Kind = KindProtected
	p.Size = 2 * BaseSize(original)
	p.CoinValue = BaseCoinValue(KindProtected)
	p.Protected = &ProtectedState{OriginalKind: original, CurrentKind: original}
}

// ConvertToConfidentialProtected upgrades a plain Confidential packet in
// place (VPNSystem, spec.md §4.6).
func (p *Packet) ConvertToConfidentialProtected() {
	p.Kind = KindConfidentialProtected
	p.Size = BaseSize(KindConfidentialProtected)
	p.CoinValue = BaseCoinValue(KindConfidentialProtected)
}

// ConvertToTrojan turns this packet into a Trojan in place (SaboteurSystem's
// conversion roll, spec.md §4.6). Protected packets are never convertible,
// enforced by the caller.
func (p *Packet) ConvertToTrojan() {
	p.Kind = KindTrojan
	p.Size = BaseSize(KindTrojan)
	p.CoinValue = BaseCoinValue(KindTrojan)
	p.Protected = nil
	p.Bulk = nil
}

// ConvertToSquareMessenger turns this packet into a plain SquareMessenger in
// place (AntiTrojanSystem's conversion, spec.md §4.6), resetting noise.
func (p *Packet) ConvertToSquareMessenger() {
	p.Kind = KindSquareMessenger
	p.Size = BaseSize(KindSquareMessenger)
	p.CoinValue = BaseCoinValue(KindSquareMessenger)
	p.NoiseLevel = 0
	p.Protected = nil
	p.Bulk = nil
}

// ExitThroughIncompatiblePort doubles the packet's movement magnitude, the
// messenger/protected exit-speed penalty of spec.md §4.4/§4.6.
func (p *Packet) ExitThroughIncompatiblePort() {
	if p.Kind.IsMessenger() || p.Kind == KindProtected {
		p.MovementVector = p.MovementVector.Scale(2)
	}
}
