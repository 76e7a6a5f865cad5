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

// Package system implements the per-system behavior policies of spec.md
// §4.6: Normal, Reference, Spy, Saboteur, VPN, AntiTrojan, Distributor and
// Merger, all sharing one common System struct and activation state machine.
package system

import (
	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

// Kind discriminates the eight system policies (spec.md §2/§4.6).
type Kind int

const (
	KindNormal Kind = iota
	KindReference
	KindSpy
	KindSaboteur
	KindVPN
	KindAntiTrojan
	KindDistributor
	KindMerger
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "NormalSystem"
	case KindReference:
		return "ReferenceSystem"
	case KindSpy:
		return "SpySystem"
	case KindSaboteur:
		return "SaboteurSystem"
	case KindVPN:
		return "VPNSystem"
	case KindAntiTrojan:
		return "AntiTrojanSystem"
	case KindDistributor:
		return "DistributorSystem"
	case KindMerger:
		return "MergerSystem"
	default:
		return "UnknownSystem"
	}
}

// MaxStorage is the default storage capacity (spec.md §3). Distributor
// systems use UnlimitedStorage instead.
const MaxStorage = 5

// UnlimitedStorage marks a system (only Distributor) as having no storage
// cap.
const UnlimitedStorage = -1

// SpeedDamageThreshold and SpeedDamageDeactivationTime are spec.md §3's
// fixed constants.
const (
	SpeedDamageThreshold        = 150.0
	SpeedDamageDeactivationTime = 10.0
	DefaultMaxDeactivationTime  = 10.0
	// DefaultAntiTrojanScanRadius resolves spec.md §9's open question: the
	// scan radius is configurable per system, defaulting to the same
	// spatial scale as SpeedDamageThreshold.
	DefaultAntiTrojanScanRadius = 150.0
)

// System is the common state shared by every policy (spec.md §3).
type System struct {
	ID       ids.SystemID
	Kind     Kind
	Position geometry.Point2D

	InputPorts  []*port.Port
	OutputPorts []*port.Port

	Storage    []*packet.Packet
	MaxStorage int

	State               ActivationState
	DeactivationTimer   float64
	MaxDeactivationTime float64

	IndicatorVisible bool

	// Reference-system fields (spec.md §4.6).
	IsSource              bool
	DeliveredCount        int
	processedByReference  map[ids.PacketID]bool

	// AntiTrojan-system field (spec.md §9 open question).
	AntiTrojanScanRadius float64

	// Distributor/Merger bookkeeping (spec.md §4.6).
	mergerGroups map[ids.PacketID][]*packet.Packet
}

// New constructs a system of the given kind with default storage/timeout
// values.
func New(id ids.SystemID, kind Kind, pos geometry.Point2D) *System {
	s := &System{
		ID:                   id,
		Kind:                 kind,
		Position:             pos,
		MaxStorage:           MaxStorage,
		State:                StateActive,
		MaxDeactivationTime:  DefaultMaxDeactivationTime,
		processedByReference: map[ids.PacketID]bool{},
		AntiTrojanScanRadius: DefaultAntiTrojanScanRadius,
	}
	if kind == KindDistributor {
		s.MaxStorage = UnlimitedStorage
	}
	if kind == KindMerger {
		s.mergerGroups = map[ids.PacketID][]*packet.Packet{}
	}
	return s
}

// HasStorageRoom reports whether another packet can be buffered.
func (s *System) HasStorageRoom() bool {
	return s.MaxStorage == UnlimitedStorage || len(s.Storage) < s.MaxStorage
}

// StorePacket buffers a packet in storage, provided there is room.
func (s *System) StorePacket(pkt *packet.Packet) bool {
	if !s.HasStorageRoom() {
		return false
	}
	s.Storage = append(s.Storage, pkt)
	return true
}

// PopStorage removes and returns the oldest stored packet, if any.
func (s *System) PopStorage() *packet.Packet {
	if len(s.Storage) == 0 {
		return nil
	}
	pkt := s.Storage[0]
	s.Storage = s.Storage[1:]
	return pkt
}

// DestroyOtherStoredPackets implements the bulk side-effect of spec.md §4.4:
// "destroys every other packet stored there". The triggering packet, if
// present in storage, is left alone (it has already been removed from
// storage by the caller before processing).
func (s *System) DestroyOtherStoredPackets() {
	for _, pkt := range s.Storage {
		pkt.Active = false
	}
	s.Storage = nil
}

// HasOtherPackets reports whether the system currently holds any packets in
// storage or ports, used by Confidential's occupancy-based speed scaling
// (spec.md §4.4/§4.6).
func (s *System) HasOtherPackets() bool {
	if len(s.Storage) > 0 {
		return true
	}
	for _, p := range s.InputPorts {
		if p.CurrentPacket != nil {
			return true
		}
	}
	for _, p := range s.OutputPorts {
		if p.CurrentPacket != nil {
			return true
		}
	}
	return false
}

// ResetRuntimeState clears every tick-to-tick mutation a simulation run
// leaves on a system, used by engine's time-travel rewind (spec.md §9):
// activation returns to Active, storage and held port packets are cleared,
// and per-packet dedup/grouping bookkeeping is reset.
func (s *System) ResetRuntimeState() {
	s.State = StateActive
	s.DeactivationTimer = 0
	s.Storage = nil
	s.DeliveredCount = 0
	s.processedByReference = map[ids.PacketID]bool{}
	if s.Kind == KindMerger {
		s.mergerGroups = map[ids.PacketID][]*packet.Packet{}
	}
	for _, p := range s.InputPorts {
		p.CurrentPacket = nil
	}
	for _, p := range s.OutputPorts {
		p.CurrentPacket = nil
	}
}

// MutateRandomPortShape implements the bulk side-effect of randomly changing
// one port's shape to a different shape (spec.md §4.4).
func (s *System) MutateRandomPortShape(pick func(n int) int, nextShape func(port.Shape) port.Shape) {
	all := make([]*port.Port, 0, len(s.InputPorts)+len(s.OutputPorts))
	all = append(all, s.InputPorts...)
	all = append(all, s.OutputPorts...)
	if len(all) == 0 {
		return
	}
	p := all[pick(len(all))]
	p.Shape = nextShape(p.Shape)
}
