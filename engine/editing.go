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
	"github.com/Arceliar/phony"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/wire"
)

// CreateWire submits level.Level.CreateWire through the actor (spec.md §4.9/
// §6's "createWire(p1,p2)"), returning the same EditingRejection-style error
// the level package defines.
func (e *Engine) CreateWire(a, b *port.Port) (w *wire.WireConnection, err error) {
	phony.Block(e, func() {
		w, err = e.lvl.CreateWire(e.st, a, b)
	})
	return
}

// RemoveWire submits level.Level.RemoveWire through the actor.
func (e *Engine) RemoveWire(id ids.WireID) (err error) {
	phony.Block(e, func() {
		err = e.lvl.RemoveWire(e.st, id)
	})
	return
}

// AddBend submits level.Level.AddBend through the actor.
func (e *Engine) AddBend(id ids.WireID, pos geometry.Point2D) (err error) {
	phony.Block(e, func() {
		err = e.lvl.AddBend(e.st, id, pos)
	})
	return
}

// MoveBend submits level.Level.MoveBend through the actor.
func (e *Engine) MoveBend(id ids.WireID, i int, pos geometry.Point2D) (err error) {
	phony.Block(e, func() {
		err = e.lvl.MoveBend(e.st, id, i, pos)
	})
	return
}

// MoveSystem submits level.Level.MoveSystem through the actor. It checks
// neither the mode nor the registered abilities (Sisyphus included); the
// caller decides when a move is allowed.
func (e *Engine) MoveSystem(id ids.SystemID, pos geometry.Point2D) (err error) {
	phony.Block(e, func() {
		err = e.lvl.MoveSystem(e.st, id, pos)
	})
	return
}

// MergeWires submits level.Level.MergeWires through the actor.
func (e *Engine) MergeWires(id1, id2 ids.WireID) (w *wire.WireConnection, err error) {
	phony.Block(e, func() {
		w, err = e.lvl.MergeWires(id1, id2)
	})
	return
}

// FailSystem permanently fails a system (spec.md §4.6 state machine),
// returning any en-route or input-held packets to their source (spec.md
// §4.6's returnToSource rule). Exposed for the ability economy / scripted
// scenarios; nothing in the core tick pipeline triggers it automatically,
// since spec.md never fixes an automatic failure trigger beyond speed
// damage, which only deactivates (not fails) a system.
func (e *Engine) FailSystem(id ids.SystemID) {
	phony.Block(e, func() {
		e._failSystem(id)
	})
}
