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

// Package wire implements directed, single-capacity connections between an
// output port and an input port, including their bent/smoothed path
// geometry and per-tick packet transfer (spec.md §4.3/§4.4).
package wire

import (
	"go.uber.org/atomic"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

// MaxBends is the maximum number of bends a wire may carry (spec.md §3).
const MaxBends = 3

// MaxBulkPassages is the passage count at which a wire is destroyed by a
// bulk packet (spec.md §3/§4.4).
const MaxBulkPassages = 3

// WireBend is a control point that shapes a wire's path.
type WireBend struct {
	Position      geometry.Point2D
	MaxMoveRadius float64
	Movable       bool
}

// WireConnection is a directed edge from an output port to an input port,
// carrying at most one in-flight active packet (spec.md §3/§4.3).
//
// Pinecone's Peer holds a single in-flight item per direction behind a
// push/pop queue (router/peer.go's trafficOut/protoOut); WireConnection
// mirrors that single-slot discipline directly, collapsed to capacity 1
// since a wire here carries only one packet at a time.
type WireConnection struct {
	ID ids.WireID

	SourceSystemID      ids.SystemID
	DestinationSystemID ids.SystemID
	SourcePort          *port.Port
	DestinationPort     *port.Port

	Bends      []WireBend
	WireLength float64

	Active    bool
	Destroyed bool

	bulkPacketPassages atomic.Int64

	OnWire *packet.Packet

	path         *geometry.Path
	smoothCurves bool
}

// NewWireConnection builds a connection between src (must be an output
// port) and dst (must be an input port), recomputing its path and consumed
// length immediately (spec.md §4.9 normalizes direction before calling
// this).
func NewWireConnection(src, dst *port.Port, smoothCurves bool) *WireConnection {
	w := &WireConnection{
		ID:                  ids.NewWireID(),
		SourceSystemID:      src.ParentSystemID,
		DestinationSystemID: dst.ParentSystemID,
		SourcePort:          src,
		DestinationPort:     dst,
		Active:              true,
		smoothCurves:        smoothCurves,
	}
	w.rebuildPath()
	w.WireLength = w.path.Length()
	return w
}

func (w *WireConnection) rebuildPath() {
	bends := make([]geometry.Point2D, len(w.Bends))
	for i, b := range w.Bends {
		bends[i] = b.Position
	}
	w.path = geometry.NewPath(w.SourcePort.Position, bends, w.DestinationPort.Position, w.smoothCurves)
}

// Path exposes the wire's current routed path.
func (w *WireConnection) Path() *geometry.Path {
	return w.path
}

// Rebuild recomputes the wire's path and length after its endpoint ports'
// positions change underneath it (level.WiringController's MoveSystem).
func (w *WireConnection) Rebuild() {
	w.rebuildPath()
	w.WireLength = w.path.Length()
}

// SetSmoothCurves toggles polyline vs. smooth-curve sampling and rebuilds
// the path. Toggling twice is a length no-op (spec.md §8).
func (w *WireConnection) SetSmoothCurves(smooth bool) {
	if w.smoothCurves == smooth {
		return
	}
	w.smoothCurves = smooth
	w.rebuildPath()
}

// CurrentLength returns the wire's path length under its current sampling
// mode.
func (w *WireConnection) CurrentLength() float64 {
	return w.path.Length()
}

// BulkPassages returns the number of times a bulk packet has entered this
// wire.
func (w *WireConnection) BulkPassages() int64 {
	return w.bulkPacketPassages.Load()
}

// RegisterBulkPassage increments the bulk-passage counter and destroys the
// wire once MaxBulkPassages is reached (spec.md §3/§4.4, boundary-tested in
// spec.md §8 scenario 4).
func (w *WireConnection) RegisterBulkPassage() {
	n := w.bulkPacketPassages.Add(1)
	if n >= MaxBulkPassages {
		w.Destroy()
	}
}

// Destroy marks the wire permanently inactive. Destroyed wires never accept
// or move packets again (spec.md invariant 6).
func (w *WireConnection) Destroy() {
	w.Destroyed = true
	w.Active = false
}

// ResetRuntimeState clears every tick-to-tick mutation a simulation run
// leaves on a wire, used by engine's time-travel rewind (spec.md §9): the
// wire returns to active/undestroyed, its on-wire slot is cleared, and its
// bulk-passage counter is zeroed. Bends and WireLength are level-graph data
// that editing, not simulation, mutates, so they are left untouched.
func (w *WireConnection) ResetRuntimeState() {
	w.Active = true
	w.Destroyed = false
	w.OnWire = nil
	w.bulkPacketPassages.Store(0)
}

// CanAccept reports whether the wire currently has room for a new on-wire
// packet (spec.md invariant 5: at most one active packet per wire).
func (w *WireConnection) CanAccept() bool {
	return w.Active && !w.Destroyed && (w.OnWire == nil || !w.OnWire.Active)
}
