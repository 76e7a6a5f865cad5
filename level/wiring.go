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

// WiringController implements the editing-time operations of spec.md §4.9,
// grounded on the teacher's check-then-mutate idiom in
// cmd/pineconesim/simulator/links.go's ConnectNodes/DisconnectNodes. These
// methods take no locks; callers serialize access (engine.Engine does so
// through its actor).
package level

import (
	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/wire"
)

// BendCoinCost is spec.md §4.9's fixed price of adding a bend.
const BendCoinCost = 1

// CreateWire accepts a new wire between two ports iff spec.md §4.9's full
// rule set holds: distinct parent systems, opposite directions, neither
// port already connected, no existing connection between the two systems,
// the straight segment avoids every other system's footprint, and the
// length fits the remaining budget. Endpoints are normalized so the wire's
// source is always the output-facing port.
func (l *Level) CreateWire(st *State, a, b *port.Port) (*wire.WireConnection, error) {
	if a.ParentSystemID == b.ParentSystemID {
		return nil, ErrSameSystem
	}
	if a.IsInput == b.IsInput {
		return nil, ErrSameDirection
	}
	if a.IsConnected || b.IsConnected {
		return nil, ErrPortAlreadyWired
	}

	source, dest := a, b
	if a.IsInput {
		source, dest = b, a
	}

	srcSys, ok := l.Systems[source.ParentSystemID]
	if !ok {
		return nil, ErrUnknownSystem
	}
	dstSys, ok := l.Systems[dest.ParentSystemID]
	if !ok {
		return nil, ErrUnknownSystem
	}

	for _, w := range l.Wires {
		if !w.Active {
			continue
		}
		if (w.SourceSystemID == srcSys.ID && w.DestinationSystemID == dstSys.ID) ||
			(w.SourceSystemID == dstSys.ID && w.DestinationSystemID == srcSys.ID) {
			return nil, ErrAlreadyConnected
		}
	}

	for _, other := range l.Systems {
		if other.ID == srcSys.ID || other.ID == dstSys.ID {
			continue
		}
		if SystemBoundingBox(other).IntersectsSegment(source.Position, dest.Position) {
			return nil, ErrCrossesSystem
		}
	}

	length := source.Position.DistanceTo(dest.Position)
	if length > st.RemainingWireLength {
		return nil, ErrInsufficientBudget
	}

	w := wire.NewWireConnection(source, dest, l.Settings.SmoothWireCurves)
	source.IsConnected = true
	dest.IsConnected = true
	l.Wires[w.ID] = w
	st.RemainingWireLength -= w.WireLength
	return w, nil
}

// bendInsertionPositions mirrors wire.AddBend's own insertion-index
// computation (spec.md §4.1's "nearest segment, pinned") without mutating
// the wire, so AddBend's budget check can be made before committing.
func bendInsertionPositions(w *wire.WireConnection, pos geometry.Point2D) []geometry.Point2D {
	idx := w.Path().NearestSegmentIndex(pos)
	pinned := w.Path().ProjectOntoPath(pos)

	out := make([]geometry.Point2D, 0, len(w.Bends)+1)
	for i, b := range w.Bends {
		if i == idx {
			out = append(out, pinned)
		}
		out = append(out, b.Position)
	}
	if idx == len(w.Bends) {
		out = append(out, pinned)
	}
	return out
}

// AddBend costs BendCoinCost and consumes the length delta the new bend
// introduces, refusing if that delta would exceed the remaining budget
// (spec.md §4.9).
func (l *Level) AddBend(st *State, wireID ids.WireID, pos geometry.Point2D) error {
	w, ok := l.Wires[wireID]
	if !ok {
		return ErrUnknownWire
	}

	bends := bendInsertionPositions(w, pos)
	hypothetical := geometry.NewPath(w.SourcePort.Position, bends, w.DestinationPort.Position, l.Settings.SmoothWireCurves)
	delta := hypothetical.Length() - w.WireLength
	if delta > st.RemainingWireLength {
		return ErrInsufficientBudget
	}

	if err := w.AddBend(pos); err != nil {
		return err
	}
	st.RemainingWireLength -= delta
	st.Stats.Coins.Sub(BendCoinCost)
	return nil
}

// MoveBend recomputes the length delta a relocation introduces, deducting
// or refunding the remaining budget accordingly, and refuses a move that
// would exceed it (spec.md §4.9).
func (l *Level) MoveBend(st *State, wireID ids.WireID, i int, newPos geometry.Point2D) error {
	w, ok := l.Wires[wireID]
	if !ok {
		return ErrUnknownWire
	}
	if i < 0 || i >= len(w.Bends) {
		return ErrPortIndex
	}

	bends := make([]geometry.Point2D, len(w.Bends))
	for j, b := range w.Bends {
		bends[j] = b.Position
	}
	bends[i] = newPos
	hypothetical := geometry.NewPath(w.SourcePort.Position, bends, w.DestinationPort.Position, l.Settings.SmoothWireCurves)
	delta := hypothetical.Length() - w.WireLength
	if delta > st.RemainingWireLength {
		return ErrInsufficientBudget
	}

	srcSys := l.Systems[w.SourceSystemID]
	dstSys := l.Systems[w.DestinationSystemID]
	if err := w.MoveBend(i, newPos, SystemBoundingBox(srcSys), SystemBoundingBox(dstSys)); err != nil {
		return err
	}
	st.RemainingWireLength -= delta
	return nil
}

// RemoveWire restores its length to the budget, marks it inactive, and
// disconnects both ports (spec.md §4.9).
func (l *Level) RemoveWire(st *State, wireID ids.WireID) error {
	w, ok := l.Wires[wireID]
	if !ok {
		return ErrUnknownWire
	}
	st.RemainingWireLength += w.WireLength
	w.Active = false
	w.SourcePort.IsConnected = false
	w.DestinationPort.IsConnected = false
	delete(l.Wires, wireID)
	return nil
}

// MoveSystem relocates a system and every port it owns, rebuilding incident
// wires' paths. It reverts entirely if the relocation would make any
// incident wire cross a third system's footprint or exceed the length
// budget (spec.md §4.9).
func (l *Level) MoveSystem(st *State, sysID ids.SystemID, newPos geometry.Point2D) error {
	s, ok := l.Systems[sysID]
	if !ok {
		return ErrUnknownSystem
	}

	var incident []*wire.WireConnection
	for _, w := range l.Wires {
		if w.Active && (w.SourceSystemID == sysID || w.DestinationSystemID == sysID) {
			incident = append(incident, w)
		}
	}

	oldLen := 0.0
	for _, w := range incident {
		oldLen += w.CurrentLength()
	}

	oldPos := s.Position
	delta := newPos.Sub(oldPos)
	relocate := func(to geometry.Vec2D) {
		for _, p := range s.InputPorts {
			p.Position = p.Position.Add(to)
		}
		for _, p := range s.OutputPorts {
			p.Position = p.Position.Add(to)
		}
		for _, w := range incident {
			w.Rebuild()
		}
	}

	s.Position = newPos
	relocate(delta)

	newLen := 0.0
	for _, w := range incident {
		newLen += w.CurrentLength()
	}
	lengthDelta := newLen - oldLen

	revert := func() {
		s.Position = oldPos
		relocate(delta.Scale(-1))
	}

	if lengthDelta > st.RemainingWireLength {
		revert()
		return ErrInsufficientBudget
	}
	for _, w := range incident {
		for _, other := range l.Systems {
			if other.ID == w.SourceSystemID || other.ID == w.DestinationSystemID {
				continue
			}
			if SystemBoundingBox(other).IntersectsSegment(w.SourcePort.Position, w.DestinationPort.Position) {
				revert()
				return ErrCrossesSystem
			}
		}
	}

	st.RemainingWireLength -= lengthDelta
	for _, w := range incident {
		w.WireLength = w.CurrentLength()
	}
	return nil
}

// MergeWires combines two wires that share a common port into one direct
// wire between their non-shared ports. The merged wire's budgeted length is
// the sum of the two originals', preserving the length-budget invariant
// rather than refunding the shortened geometric distance (spec.md §4.9).
func (l *Level) MergeWires(id1, id2 ids.WireID) (*wire.WireConnection, error) {
	w1, ok := l.Wires[id1]
	if !ok {
		return nil, ErrUnknownWire
	}
	w2, ok := l.Wires[id2]
	if !ok {
		return nil, ErrUnknownWire
	}

	var otherOfW1, otherOfW2 *port.Port
	switch {
	case w1.SourcePort == w2.SourcePort:
		otherOfW1, otherOfW2 = w1.DestinationPort, w2.DestinationPort
	case w1.SourcePort == w2.DestinationPort:
		otherOfW1, otherOfW2 = w1.DestinationPort, w2.SourcePort
	case w1.DestinationPort == w2.SourcePort:
		otherOfW1, otherOfW2 = w1.SourcePort, w2.DestinationPort
	case w1.DestinationPort == w2.DestinationPort:
		otherOfW1, otherOfW2 = w1.SourcePort, w2.SourcePort
	default:
		return nil, ErrWiresNotShared
	}

	source, dest := otherOfW1, otherOfW2
	if source.IsInput {
		source, dest = dest, source
	}
	if source.IsInput == dest.IsInput {
		return nil, ErrSameDirection
	}

	merged := wire.NewWireConnection(source, dest, l.Settings.SmoothWireCurves)
	merged.WireLength = w1.WireLength + w2.WireLength

	w1.Active = false
	w2.Active = false
	delete(l.Wires, id1)
	delete(l.Wires, id2)
	l.Wires[merged.ID] = merged
	return merged, nil
}
