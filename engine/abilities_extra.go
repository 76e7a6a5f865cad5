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

import "github.com/HisEgo/BlueprintHell/ids"

// Aergia zeroes the tangential acceleration a packet would otherwise pick up
// while traversing one targeted wire (spec.md §4.5), by pinning its base
// speed back to the type's unaccelerated value every tick it is active.
type Aergia struct {
	TargetWire ids.WireID
}

func (Aergia) Name() string { return "Aergia" }
func (a Aergia) Apply(ctx *AbilityContext) {
	if ctx.WireID != a.TargetWire {
		return
	}
	speed, _ := ctx.Packet.SpeedAndAcceleration(false)
	ctx.Packet.BaseSpeed = speed
}

// Sisyphus is an ability registered by name only. Apply is a no-op and
// nothing in this module consults it: Engine.MoveSystem does not check the
// mode or the registered abilities, and level.MoveSystem always charges the
// wire budget for the length change.
type Sisyphus struct{}

func (Sisyphus) Name() string          { return "Sisyphus" }
func (Sisyphus) Apply(*AbilityContext) {}
