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

package level

import (
	"go.uber.org/atomic"

	"github.com/HisEgo/BlueprintHell/packet"
)

// GameOverReason enumerates spec.md §7's GameOver reasons as a string enum,
// the same shape as the teacher's PeerType int enum but string-valued for
// readability in logs and level-complete reports.
type GameOverReason string

const (
	ReasonNone                     GameOverReason = "NONE"
	ReasonExcessivePacketLoss      GameOverReason = "EXCESSIVE_PACKET_LOSS"
	ReasonTimeLimitExceeded        GameOverReason = "TIME_LIMIT_EXCEEDED"
	ReasonNetworkDisconnected      GameOverReason = "NETWORK_DISCONNECTED"
	ReasonExcessiveSystemFailures  GameOverReason = "EXCESSIVE_SYSTEM_FAILURES"
)

// Stats holds the per-run counters that must be exactly-once and safe to
// read from a UI goroutine between ticks, mirroring peerStatistics's
// atomic.Uint64 fields in the teacher (router/peer.go).
type Stats struct {
	Coins            atomic.Int64
	LostPacketsCount atomic.Int64
	TotalInjected    atomic.Int64
}

// PacketLossPercent implements spec.md §8's testable property 7.
func (s *Stats) PacketLossPercent() float64 {
	total := s.TotalInjected.Load()
	if total == 0 {
		return 0
	}
	return float64(s.LostPacketsCount.Load()) / float64(total) * 100
}

// Reset zeros every counter, used when (re)starting a level from its
// snapshot (engine.Engine's time-travel rewind).
func (s *Stats) Reset() {
	s.Coins.Store(0)
	s.LostPacketsCount.Store(0)
	s.TotalInjected.Store(0)
}

// State is the mutable per-run simulation state the engine drives (spec.md
// §3 GameState): the run's counters, timers and flags. The Level's systems,
// wires and schedule entries also carry runtime fields that ticks change.
type State struct {
	RemainingWireLength float64

	Stats Stats

	ActivePackets []*packet.Packet

	LevelTimer       float64
	TemporalProgress float64

	Paused        bool
	GameOver      bool
	LevelComplete bool

	LastGameOverReason GameOverReason

	// EditingMode is true while the level is being wired up and false once
	// the tick loop has started (spec.md §3 Lifecycle / §5).
	EditingMode bool
}

// NewState builds a fresh State for a level that has not yet been wired:
// the full InitialWireLength is available and nothing has run yet.
func NewState(l *Level) *State {
	return &State{
		RemainingWireLength: l.InitialWireLength,
		EditingMode:         true,
		LastGameOverReason:  ReasonNone,
	}
}
