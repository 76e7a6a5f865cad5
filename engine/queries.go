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

	"github.com/HisEgo/BlueprintHell/level"
)

// Coins returns the run's current coin total (spec.md §6).
func (e *Engine) Coins() (coins int64) {
	phony.Block(e, func() { coins = e.st.Stats.Coins.Load() })
	return
}

// PacketLossPercent returns spec.md §8's testable property 7.
func (e *Engine) PacketLossPercent() (pct float64) {
	phony.Block(e, func() { pct = e.st.Stats.PacketLossPercent() })
	return
}

// DeliveredCount sums every reference system's delivered-packet count.
func (e *Engine) DeliveredCount() (n int) {
	phony.Block(e, func() { n = e.deliveredCount() })
	return
}

// LostPacketsCount returns the run's lost-packet tally.
func (e *Engine) LostPacketsCount() (n int64) {
	phony.Block(e, func() { n = e.st.Stats.LostPacketsCount.Load() })
	return
}

// RemainingWireLength returns the wire budget still available for new
// wiring (spec.md §3 invariant 4).
func (e *Engine) RemainingWireLength() (remaining float64) {
	phony.Block(e, func() { remaining = e.st.RemainingWireLength })
	return
}

// IsEditing reports whether the level is currently in editing mode.
func (e *Engine) IsEditing() (editing bool) {
	phony.Block(e, func() { editing = e.st.EditingMode })
	return
}

// IsPaused reports whether the tick loop is currently paused.
func (e *Engine) IsPaused() (paused bool) {
	phony.Block(e, func() { paused = e.st.Paused })
	return
}

// IsGameOver reports whether the run has ended in a loss, and why.
func (e *Engine) IsGameOver() (over bool, reason level.GameOverReason) {
	phony.Block(e, func() {
		over = e.st.GameOver
		reason = e.st.LastGameOverReason
	})
	return
}

// IsLevelComplete reports whether the run has ended in a win.
func (e *Engine) IsLevelComplete() (complete bool) {
	phony.Block(e, func() { complete = e.st.LevelComplete })
	return
}

// CurrentTime returns the level's elapsed simulation time.
func (e *Engine) CurrentTime() (t float64) {
	phony.Block(e, func() { t = e.st.TemporalProgress })
	return
}

// ActivePacketCount returns the number of packets currently in flight.
func (e *Engine) ActivePacketCount() (n int) {
	phony.Block(e, func() { n = len(e.st.ActivePackets) })
	return
}

// SystemFailedPercent returns the percentage (0-100) of systems currently Failed
// (spec.md §4.8's excessive-system-failures predicate).
func (e *Engine) SystemFailedPercent() (pct float64) {
	phony.Block(e, func() { pct = e.failedSystemPercent() })
	return
}
