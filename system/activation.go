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

// ActivationState implements the state machine of spec.md §4.6:
// Active -> Deactivated (timed) -> Active, and Active/Deactivated -> Failed
// (permanent).
type ActivationState int

const (
	StateActive ActivationState = iota
	StateDeactivated
	StateFailed
)

// Deactivate puts the system into the timed Deactivated state, unless it has
// already Failed permanently.
func (s *System) Deactivate(duration float64) {
	if s.State == StateFailed {
		return
	}
	s.State = StateDeactivated
	s.DeactivationTimer = duration
}

// TickDeactivation counts down the deactivation timer, returning to Active
// once it elapses (spec.md §4.6/§5: decremented every tick).
func (s *System) TickDeactivation(dt float64) {
	if s.State != StateDeactivated {
		return
	}
	s.DeactivationTimer -= dt
	if s.DeactivationTimer <= 0 {
		s.State = StateActive
		s.DeactivationTimer = 0
	}
}

// Fail permanently fails the system (spec.md §4.6). Returning packets held
// in its input ports or in flight toward it is the caller's (engine's)
// responsibility, since that requires access to the wire graph.
func (s *System) Fail() {
	s.State = StateFailed
}

// IsUsable reports whether the system can currently accept or forward
// packets (Active; Deactivated systems still exist but drop traffic until
// their timer elapses, Failed systems never again).
func (s *System) IsUsable() bool {
	return s.State == StateActive
}
