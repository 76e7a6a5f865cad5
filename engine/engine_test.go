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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/level"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/system"
)

// newWiredPair builds the smallest level a tick pipeline can exercise: two
// systems joined by a single straight wire, both ports Square so a
// SquareMessenger enters compatibly on both sides.
func newWiredPair(t *testing.T, srcKind, dstKind system.Kind, distance float64) (*level.Level, *system.System, *system.System) {
	t.Helper()
	lvl := level.New(ids.NewLevelID(), "test", "", 1000, 120)

	src := system.New(ids.NewSystemID(), srcKind, geometry.Point2D{X: 0, Y: 0})
	dst := system.New(ids.NewSystemID(), dstKind, geometry.Point2D{X: distance, Y: 0})

	outPort := &port.Port{Shape: port.Square, IsInput: false, ParentSystemID: src.ID, Position: src.Position}
	inPort := &port.Port{Shape: port.Square, IsInput: true, ParentSystemID: dst.ID, Position: dst.Position}
	src.OutputPorts = append(src.OutputPorts, outPort)
	dst.InputPorts = append(dst.InputPorts, inPort)

	lvl.AddSystem(src)
	lvl.AddSystem(dst)

	st := level.NewState(lvl)
	_, err := lvl.CreateWire(st, outPort, inPort)
	require.NoError(t, err)

	lvl.PacketSchedule = append(lvl.PacketSchedule, &level.PacketInjection{
		Time:       0,
		PacketType: packet.KindSquareMessenger,
		SourceID:   src.ID,
	})

	return lvl, src, dst
}

func runUntil(e *Engine, dt float64, maxTicks int, done func() bool) {
	for i := 0; i < maxTicks && !done(); i++ {
		e.Tick(dt)
	}
}

func TestDeliveryAwardsCoinExactlyOnce(t *testing.T) {
	lvl, _, dst := newWiredPair(t, system.KindNormal, system.KindReference, 180)
	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(7))
	e.EnterSimulationMode()

	runUntil(e, 0.05, 400, func() bool { return e.IsLevelComplete() })

	require.True(t, e.IsLevelComplete(), "delivering a single messenger across one wire should complete the level")
	over, _ := e.IsGameOver()
	require.False(t, over)
	require.Equal(t, 1, e.DeliveredCount())
	require.Equal(t, int64(packet.BaseCoinValue(packet.KindSquareMessenger)), e.Coins())
	require.Equal(t, 0, e.ActivePacketCount())
	require.Equal(t, 1, dst.DeliveredCount)

	// Ticking again after completion must not change anything further
	// (spec.md §4.7: the pipeline is a no-op once a run has ended).
	coinsAfter := e.Coins()
	e.Tick(0.05)
	require.Equal(t, coinsAfter, e.Coins())
}

func TestNetworkDisconnectedWithNoWireIsGameOver(t *testing.T) {
	lvl := level.New(ids.NewLevelID(), "disconnected", "", 1000, 10)
	src := system.New(ids.NewSystemID(), system.KindNormal, geometry.Point2D{})
	dst := system.New(ids.NewSystemID(), system.KindReference, geometry.Point2D{X: 500, Y: 0})
	outPort := &port.Port{Shape: port.Square, IsInput: false, ParentSystemID: src.ID}
	src.OutputPorts = append(src.OutputPorts, outPort)
	lvl.AddSystem(src)
	lvl.AddSystem(dst)
	lvl.PacketSchedule = append(lvl.PacketSchedule, &level.PacketInjection{
		Time: 0, PacketType: packet.KindSquareMessenger, SourceID: src.ID,
	})

	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(1))
	e.EnterSimulationMode()

	runUntil(e, 0.05, 20, func() bool {
		over, _ := e.IsGameOver()
		return over
	})

	over, reason := e.IsGameOver()
	require.True(t, over)
	require.Equal(t, level.ReasonNetworkDisconnected, reason)
}

func TestBulkSmallThirdPassageDestroysWire(t *testing.T) {
	lvl, src, _ := newWiredPair(t, system.KindNormal, system.KindReference, 100)
	lvl.PacketSchedule = nil
	for i := 0; i < 3; i++ {
		lvl.PacketSchedule = append(lvl.PacketSchedule, &level.PacketInjection{
			Time:       float64(i) * 3.0,
			PacketType: packet.KindBulkSmall,
			SourceID:   src.ID,
		})
	}

	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(3))
	e.EnterSimulationMode()

	var wireID ids.WireID
	for id := range lvl.Wires {
		wireID = id
	}

	runUntil(e, 0.05, 2000, func() bool {
		w, ok := lvl.Wires[wireID]
		return !ok || w.Destroyed
	})

	w := lvl.Wires[wireID]
	require.NotNil(t, w)
	require.True(t, w.Destroyed, "a wire must be destroyed on its third bulk passage")
	require.False(t, w.Active)
}

func TestFailSystemReturnsInFlightPacketToSource(t *testing.T) {
	lvl, src, dst := newWiredPair(t, system.KindNormal, system.KindNormal, 120)
	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(2))
	e.EnterSimulationMode()

	// Advance a few ticks so the packet is in flight, short of arrival.
	runUntil(e, 0.05, 10, func() bool { return false })

	var wireID ids.WireID
	for id := range lvl.Wires {
		wireID = id
	}
	before := lvl.Wires[wireID].OnWire
	require.NotNil(t, before, "packet should still be traversing the wire")
	require.False(t, before.IsReversing)

	e.FailSystem(dst.ID)

	after := lvl.Wires[wireID].OnWire
	require.Same(t, before, after, "the same packet instance is reused for the return trip")
	require.True(t, after.IsReversing)
	require.NotNil(t, after.RetryDestination)
	require.Equal(t, src.ID, *after.RetryDestination)
	require.Equal(t, system.StateFailed, dst.State)
}

// TestBulkThroughDistributorAndMergerStaysTracked exercises the
// ActivePackets lifecycle a Distributor/Merger pair drives: the source
// bulk is consumed into Bit packets, the Merger reassembles a fresh bulk
// once all bits arrive, and that bulk is finally delivered. Every
// intermediate packet must stay visible to loss accounting and the
// level-complete gate, and the transform steps must never be counted as
// loss.
func TestBulkThroughDistributorAndMergerStaysTracked(t *testing.T) {
	lvl := level.New(ids.NewLevelID(), "distributor-merger", "", 2000, 120)

	src := system.New(ids.NewSystemID(), system.KindNormal, geometry.Point2D{X: 0, Y: 0})
	dist := system.New(ids.NewSystemID(), system.KindDistributor, geometry.Point2D{X: 200, Y: 0})
	merge := system.New(ids.NewSystemID(), system.KindMerger, geometry.Point2D{X: 400, Y: 0})
	dst := system.New(ids.NewSystemID(), system.KindReference, geometry.Point2D{X: 600, Y: 0})

	link := func(a *system.System, b *system.System) {
		outPort := &port.Port{Shape: port.Square, IsInput: false, ParentSystemID: a.ID, Position: a.Position}
		inPort := &port.Port{Shape: port.Square, IsInput: true, ParentSystemID: b.ID, Position: b.Position}
		a.OutputPorts = append(a.OutputPorts, outPort)
		b.InputPorts = append(b.InputPorts, inPort)
		st := level.NewState(lvl)
		_, err := lvl.CreateWire(st, outPort, inPort)
		require.NoError(t, err)
	}

	lvl.AddSystem(src)
	lvl.AddSystem(dist)
	lvl.AddSystem(merge)
	lvl.AddSystem(dst)
	link(src, dist)
	link(dist, merge)
	link(merge, dst)

	lvl.PacketSchedule = append(lvl.PacketSchedule, &level.PacketInjection{
		Time:       0,
		PacketType: packet.KindBulkSmall,
		SourceID:   src.ID,
	})

	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(5))
	e.EnterSimulationMode()

	runUntil(e, 0.05, 4000, func() bool {
		over, _ := e.IsGameOver()
		return e.IsLevelComplete() || over
	})

	over, reason := e.IsGameOver()
	require.False(t, over, "reason: %s", reason)
	require.True(t, e.IsLevelComplete())
	require.Equal(t, 0, e.ActivePacketCount(), "every bit and the reassembled bulk must be cleaned up")
	require.InDelta(t, 0.0, e.PacketLossPercent(), 0.0001, "consuming a bulk into bits and reassembling it must not count as loss")
	require.Equal(t, int64(0), e.LostPacketsCount())
	require.Equal(t, 1, e.DeliveredCount())
}

func TestTimeTravelIsDeterministic(t *testing.T) {
	lvl, _, _ := newWiredPair(t, system.KindNormal, system.KindReference, 180)
	st := level.NewState(lvl)
	e := New(lvl, st, WithSeed(42))
	e.EnterSimulationMode()

	runUntil(e, ReplayStep, 300, func() bool { return e.IsLevelComplete() })
	wantCoins := e.Coins()
	wantDelivered := e.DeliveredCount()
	wantTime := e.CurrentTime()

	e.TimeTravelTo(wantTime)

	require.Equal(t, wantCoins, e.Coins())
	require.Equal(t, wantDelivered, e.DeliveredCount())
	require.InDelta(t, wantTime, e.CurrentTime(), ReplayStep)
}
