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

// Package engine implements the tick controller of spec.md §4.7/§4.8/§5: the
// fixed per-tick pipeline, end-of-level predicates, and time travel, wrapping
// one level.Level/level.State pair as a phony.Inbox actor so every mutation
// is serialized the way the teacher serializes Router/Peer state
// (router/simulator.go's phony.Block(r.state, ...) idiom).
package engine

import (
	"log"
	"math/rand"
	"os"

	"github.com/Arceliar/phony"

	"github.com/HisEgo/BlueprintHell/level"
	"github.com/HisEgo/BlueprintHell/packet"
)

// Option configures an Engine at construction, the same functional-options
// idiom the teacher uses for router.ConnectionOption.
type Option func(*Engine)

// WithLogger overrides the engine's plain *log.Logger (Router.log/Simulator.log
// in the teacher; no structured logging library appears anywhere in the pack
// for this kind of component).
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithSeed seeds the engine's single shared RNG (spec.md §9: "a single
// seedable generator exposed by the engine for determinism and replay").
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// Engine is a phony.Inbox actor owning one level's simulation. Tick, editing
// operations and queries are all submitted as actor messages (via
// phony.Block) so spec.md §5's "single-threaded, cooperative, fixed-step"
// guarantee holds even if a UI goroutine calls in concurrently.
type Engine struct {
	phony.Inbox

	lvl  *level.Level
	st   *level.State
	rng  *rand.Rand
	seed int64
	log  *log.Logger

	abilities           *AbilityRegistry
	shockwaveSuppressed map[*packet.Packet]bool
	start               *Snapshot
}

// New builds an Engine over an already-decoded level and its starting state
// (level.Decode, or level.New+level.NewState for a freshly authored level).
func New(lvl *level.Level, st *level.State, opts ...Option) *Engine {
	e := &Engine{
		lvl:       lvl,
		st:        st,
		rng:       rand.New(rand.NewSource(1)),
		seed:      1,
		log:       log.New(os.Stderr, "engine: ", log.LstdFlags),
		abilities: NewAbilityRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnterEditingMode freezes the tick loop and allows WiringController
// operations again (spec.md §3 Lifecycle).
func (e *Engine) EnterEditingMode() {
	phony.Block(e, func() {
		e.st.EditingMode = true
	})
}

// EnterSimulationMode freezes edits, marks every system that owns a
// scheduled injection as a source (spec.md §3 invariant "isSource ⇔ has a
// non-empty injection list bound"), and takes the level-start snapshot
// restart/time-travel rewind replay from (spec.md §6 "Deterministic
// replay").
func (e *Engine) EnterSimulationMode() {
	phony.Block(e, func() {
		e._enterSimulationMode()
	})
}

func (e *Engine) _enterSimulationMode() {
	e.st.EditingMode = false
	for _, inj := range e.lvl.PacketSchedule {
		if s, ok := e.lvl.Systems[inj.SourceID]; ok {
			s.IsSource = true
		}
	}
	e.start = e.takeSnapshot()
}

// SetPaused toggles the tick loop without resetting any state.
func (e *Engine) SetPaused(paused bool) {
	phony.Block(e, func() {
		e.st.Paused = paused
	})
}

// Tick advances the simulation by dt seconds, running the exact 11-step
// pipeline of spec.md §4.7. A no-op while editing, paused, or already over.
func (e *Engine) Tick(dt float64) {
	phony.Block(e, func() {
		e._tick(dt)
	})
}

func (e *Engine) _tick(dt float64) {
	if e.st.EditingMode || e.st.Paused || e.st.GameOver || e.st.LevelComplete {
		return
	}

	// 1. Advance temporal progress and the level timer.
	e.st.TemporalProgress += dt
	e.st.LevelTimer += dt

	// 2. Packet injections due by now.
	e._processInjections()

	// 3. System deactivation timers.
	for _, s := range e.lvl.Systems {
		s.TickDeactivation(dt)
	}

	// 4. Move packets along wires, then run any active abilities over the
	// packet that just moved (spec.md §4.5). Atar's shockwave suppression is
	// remembered for this tick's collision check (step 10).
	e.shockwaveSuppressed = map[*packet.Packet]bool{}
	for _, w := range e.lvl.Wires {
		if !w.Active {
			continue
		}
		w.UpdatePacketMovement(dt, e.lvl.Settings.OffWireLossThreshold)
		if w.OnWire != nil {
			ctx := &AbilityContext{Packet: w.OnWire, WireID: w.ID}
			e.abilities.Apply(ctx)
			if ctx.SuppressWave {
				e.shockwaveSuppressed[w.OnWire] = true
			}
		}
	}

	// 5. First wire pass: port->wire entry and wire->port delivery,
	// finalizing reference-system deliveries immediately on arrival.
	e._wirePass()

	// 6. System input processing.
	e._processSystemInputs()

	// 7. AntiTrojan scan.
	for _, s := range e.lvl.Systems {
		s.ScanAndNeutralize(e.st.ActivePackets)
	}

	// 8. Second wire pass: push anything just placed on output ports.
	e._wirePass()

	// 9. Storage -> output flush, one packet per system per tick.
	e._flushStorage()

	// 10. Collision check among on-wire packets.
	e.checkCollisions()

	// 11. Cleanup + end-condition evaluation.
	e._cleanup()
}
