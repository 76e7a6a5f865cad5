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

// Package level implements the editable network graph (spec.md §3
// GameLevel/§4.9 WiringController) and the mutable per-run state the engine
// drives (spec.md §3 GameState).
package level

import (
	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/system"
	"github.com/HisEgo/BlueprintHell/wire"
)

// SystemBoundingBoxHalfExtent is the fixed half-width/height used to keep
// wires from passing over a system's footprint (spec.md §4.9: "does not
// intersect the bounding box of any system not connected by this wire").
// Not specified numerically in spec.md; fixed at a conservative icon size.
const SystemBoundingBoxHalfExtent = 15.0

// PacketInjection is one scheduled packet spawn (spec.md §3/§4.7 step 2).
type PacketInjection struct {
	Time       float64
	PacketType packet.Kind
	SourceID   ids.SystemID
	Executed   bool
}

// Level is the editable graph: systems, wires and the packet schedule, plus
// the fixed parameters of a level file (spec.md §3 GameLevel).
type Level struct {
	ID                ids.LevelID
	Name              string
	Description       string
	InitialWireLength float64
	LevelDuration     float64

	// Tutorial resolves two of spec.md §9's open questions: it disables
	// speed damage and selects undirected network-disconnected fallback.
	Tutorial bool

	Systems map[ids.SystemID]*system.System
	Wires   map[ids.WireID]*wire.WireConnection

	PacketSchedule []*PacketInjection

	Settings Settings
}

// New constructs an empty level (no wires), spec.md §3's "Lifecycle: Level
// is created fresh".
func New(id ids.LevelID, name, description string, initialWireLength, levelDuration float64) *Level {
	return &Level{
		ID:                id,
		Name:              name,
		Description:       description,
		InitialWireLength: initialWireLength,
		LevelDuration:     levelDuration,
		Systems:           map[ids.SystemID]*system.System{},
		Wires:             map[ids.WireID]*wire.WireConnection{},
		Settings:          DefaultSettings(),
	}
}

// AddSystem registers a system built elsewhere (JSON load, editor) into the
// level's graph.
func (l *Level) AddSystem(s *system.System) {
	l.Systems[s.ID] = s
}

// SystemBoundingBox returns the fixed-size footprint box WiringController
// uses to keep new wires and moved bends off a system's icon.
func SystemBoundingBox(s *system.System) wire.BoundingBox {
	half := geometry.Vec2D{X: SystemBoundingBoxHalfExtent, Y: SystemBoundingBoxHalfExtent}
	return wire.BoundingBox{
		Min: s.Position.Add(half.Scale(-1)),
		Max: s.Position.Add(half),
	}
}

// TotalActiveWireLength sums every active wire's budgeted length (WireLength,
// not the live geometric CurrentLength — MergeWires intentionally keeps them
// apart), the other half of spec.md §3 invariant 4: this plus
// State.RemainingWireLength must equal InitialWireLength within epsilon.
func (l *Level) TotalActiveWireLength() float64 {
	var total float64
	for _, w := range l.Wires {
		if w.Active {
			total += w.WireLength
		}
	}
	return total
}

// SystemsOfKind returns every system of the given policy kind, used by
// SpySystem's teleport-target pool (spec.md §4.6).
func (l *Level) SystemsOfKind(kind system.Kind) []*system.System {
	var out []*system.System
	for _, s := range l.Systems {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
