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
	"math/rand"

	"github.com/Arceliar/phony"

	"github.com/HisEgo/BlueprintHell/level"
	"github.com/HisEgo/BlueprintHell/packet"
)

// ReplayStep is the fixed step TimeTravelTo replays at (spec.md §9
// "deterministic replay" over the same fixed-step pipeline used live).
const ReplayStep = 1.0 / 60.0

// FastForwardStep is the coarser step FastForward advances by, since it is
// skipping ahead rather than reproducing an exact recorded run.
const FastForwardStep = 0.1

// Snapshot is the replay starting point captured at EnterSimulationMode.
// Ports/wires/systems each carry their own ResetRuntimeState, so Snapshot
// only needs to remember the RNG seed and the wire budget that remained
// when the simulation started; rewinding re-seeds the RNG and resets every system/wire/packet to
// its pre-simulation state, then replays ticks from zero rather than deep-
// copying the whole object graph.
type Snapshot struct {
	seed              int64
	initialWireLength float64
}

// takeSnapshot records the state EnterSimulationMode found the level in.
func (e *Engine) takeSnapshot() *Snapshot {
	return &Snapshot{
		seed:              e.seed,
		initialWireLength: e.st.RemainingWireLength,
	}
}

// _rewind resets the run back to its pre-simulation snapshot: RNG reseeded,
// every system and wire's runtime state cleared, every scheduled injection
// un-executed, and State zeroed to t=0.
func (e *Engine) _rewind() {
	if e.start == nil {
		e.start = e.takeSnapshot()
	}
	e.rng = rand.New(rand.NewSource(e.start.seed))
	e.shockwaveSuppressed = map[*packet.Packet]bool{}

	for _, s := range e.lvl.Systems {
		s.ResetRuntimeState()
	}
	for _, w := range e.lvl.Wires {
		w.ResetRuntimeState()
	}
	for _, inj := range e.lvl.PacketSchedule {
		inj.Executed = false
	}

	e.st.ActivePackets = nil
	e.st.Stats.Reset()
	e.st.LevelTimer = 0
	e.st.TemporalProgress = 0
	e.st.RemainingWireLength = e.start.initialWireLength
	e.st.GameOver = false
	e.st.LevelComplete = false
	e.st.LastGameOverReason = level.ReasonNone
	e.st.Paused = false
}

// TimeTravelTo implements spec.md §9's rewind: resets the run to its
// pre-simulation snapshot, then replays the exact fixed-step pipeline from
// zero up to t. Replaying from a re-seeded RNG through the same ordered
// pipeline reproduces the same sequence of random draws and outcomes a live
// run up to t would have produced.
func (e *Engine) TimeTravelTo(t float64) {
	phony.Block(e, func() {
		e._rewind()
		for e.st.TemporalProgress+ReplayStep <= t && !e.st.GameOver && !e.st.LevelComplete {
			e._tick(ReplayStep)
		}
	})
}

// FastForward advances the simulation from its current time to t using
// coarser substeps (spec.md §9), stopping early if the run ends.
func (e *Engine) FastForward(t float64) {
	phony.Block(e, func() {
		for e.st.TemporalProgress+FastForwardStep <= t && !e.st.GameOver && !e.st.LevelComplete {
			e._tick(FastForwardStep)
		}
	})
}
