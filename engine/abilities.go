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

	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
)

// AbilityContext carries the per-packet state an Ability may inspect or
// mutate, passed from MovementController's per-tick update (spec.md §4.5).
type AbilityContext struct {
	Packet       *packet.Packet
	WireID       ids.WireID
	SuppressWave bool
}

// Ability is the hook point spec.md §4.5 names (Anahita/Atar/Airyaman/
// Aergia/Sisyphus/Eliphas) without specifying the economy that grants them —
// that shop/ability layer is out of scope (spec.md §1), but the movement
// controller still calls into whatever is currently registered so such a
// layer can be added later without engine changes.
type Ability interface {
	Name() string
	Apply(ctx *AbilityContext)
}

// AbilityRegistry holds the abilities currently active on a level. Empty by
// default (a no-op registry), since granting abilities is the ability
// economy's job, not the engine's.
type AbilityRegistry struct {
	active map[string]Ability
}

func NewAbilityRegistry() *AbilityRegistry {
	return &AbilityRegistry{active: map[string]Ability{}}
}

// Register activates an ability by name, replacing any previous instance.
func (r *AbilityRegistry) Register(a Ability) {
	r.active[a.Name()] = a
}

// Unregister deactivates an ability by name; a no-op if it was not active.
func (r *AbilityRegistry) Unregister(name string) {
	delete(r.active, name)
}

// Apply runs every currently-active ability against ctx, in no particular
// order (abilities are independent per spec.md §4.5).
func (r *AbilityRegistry) Apply(ctx *AbilityContext) {
	for _, a := range r.active {
		a.Apply(ctx)
	}
}

// Anahita zeroes a packet's accumulated noise every tick it is active.
type Anahita struct{}

func (Anahita) Name() string { return "Anahita" }
func (Anahita) Apply(ctx *AbilityContext) {
	ctx.Packet.NoiseLevel = 0
}

// Atar suppresses the shockwave reaction a packet would otherwise take on
// collision, by flagging the context so checkCollisions skips it.
type Atar struct{}

func (Atar) Name() string { return "Atar" }
func (Atar) Apply(ctx *AbilityContext) {
	ctx.SuppressWave = true
}

// Eliphas clears a packet's IsReversing flag. It runs after
// wire.UpdatePacketMovement, which has already applied the off-wire loss
// check and put the packet back on its path, so Eliphas does not move it.
type Eliphas struct{}

func (Eliphas) Name() string { return "Eliphas" }
func (Eliphas) Apply(ctx *AbilityContext) {
	// Re-centering happens via PathProgress, which UpdatePacketMovement
	// already re-derives the position from; nothing further to zero out
	// here beyond clearing any reversal drift.
	ctx.Packet.IsReversing = false
}

// RegisterAbility is engine.Engine's entry point for the ability economy to
// grant an ability (spec.md §4.5). Anahita, Atar, Eliphas and Aergia act
// through AbilityContext on each moved packet; Airyaman is looked up by name
// in checkCollisions; Sisyphus is held in the registry but nothing in the
// engine consults it.
func (e *Engine) RegisterAbility(a Ability) {
	phony.Block(e, func() { e.abilities.Register(a) })
}
