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

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

func newPort(shape port.Shape, isInput bool) *port.Port {
	return &port.Port{Shape: shape, IsInput: isInput}
}

func newCtx(seed int64) ProcessContext {
	return ProcessContext{Rand: rand.New(rand.NewSource(seed)), ConfidentialTargetDistance: 40}
}

func TestActivationStateMachine(t *testing.T) {
	s := New(ids.NewSystemID(), KindNormal, geometry.Point2D{})
	require.True(t, s.IsUsable())

	s.Deactivate(5)
	require.Equal(t, StateDeactivated, s.State)
	require.False(t, s.IsUsable())

	s.TickDeactivation(3)
	require.Equal(t, StateDeactivated, s.State)
	s.TickDeactivation(2)
	require.Equal(t, StateActive, s.State)
	require.True(t, s.IsUsable())

	s.Fail()
	require.False(t, s.IsUsable())
	s.Deactivate(5)
	require.Equal(t, StateFailed, s.State, "a failed system cannot be re-deactivated")
}

func TestProcessDefaultPrefersCompatibleEmptyPort(t *testing.T) {
	s := New(ids.NewSystemID(), KindNormal, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})

	square := newPort(port.Square, false)
	triangle := newPort(port.Triangle, false)
	outputs := []OutputCandidate{
		{Port: triangle, Compatible: false, Usable: true},
		{Port: square, Compatible: true, Usable: true},
	}

	result := s.ProcessDefault(pkt, outputs, newCtx(1))
	require.Same(t, square, result.PlacedOnPort)
	require.Same(t, pkt, square.CurrentPacket)
}

func TestProcessDefaultFallsBackToStorageThenDestroys(t *testing.T) {
	s := New(ids.NewSystemID(), KindNormal, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})

	result := s.ProcessDefault(pkt, nil, newCtx(1))
	require.True(t, result.Stored)
	require.Len(t, s.Storage, 1)

	for i := 0; i < MaxStorage; i++ {
		s.StorePacket(packet.New(packet.KindSquareMessenger, geometry.Point2D{}))
	}
	overflow := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	result = s.ProcessDefault(overflow, nil, newCtx(1))
	require.True(t, result.Destroyed)
	require.False(t, overflow.Active)
}

func TestProcessDefaultSpeedDamageDeactivatesSystem(t *testing.T) {
	s := New(ids.NewSystemID(), KindNormal, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	pkt.MovementVector = geometry.Vec2D{X: SpeedDamageThreshold + 1, Y: 0}

	result := s.ProcessDefault(pkt, nil, newCtx(1))
	require.True(t, result.Damaged)
	require.Equal(t, StateDeactivated, s.State)
	require.False(t, pkt.Active)
}

func TestProcessDefaultSkipsSpeedDamageInTutorial(t *testing.T) {
	s := New(ids.NewSystemID(), KindNormal, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	pkt.MovementVector = geometry.Vec2D{X: SpeedDamageThreshold + 1, Y: 0}

	ctx := newCtx(1)
	ctx.Tutorial = true
	result := s.ProcessDefault(pkt, nil, ctx)
	require.False(t, result.Damaged)
	require.True(t, s.IsUsable())
}

func TestReferenceDeliversExactlyOnce(t *testing.T) {
	s := New(ids.NewSystemID(), KindReference, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})

	result := s.processReference(pkt)
	require.False(t, result.Destroyed)
	require.False(t, pkt.Active)
	require.Equal(t, 1, s.DeliveredCount)

	pkt.Active = true
	result = s.processReference(pkt)
	require.True(t, result.Destroyed)
	require.Equal(t, 1, s.DeliveredCount, "a second delivery of the same packet must not count again")
}

func TestSpyDestroysConfidential(t *testing.T) {
	s := New(ids.NewSystemID(), KindSpy, geometry.Point2D{})
	pkt := packet.New(packet.KindConfidential, geometry.Point2D{})

	result := s.processSpy(pkt, nil, newCtx(1))
	require.True(t, result.Destroyed)
	require.False(t, pkt.Active)
	require.True(t, pkt.Lost)
}

func TestSpyRevertsProtectedThenProcessesDefault(t *testing.T) {
	s := New(ids.NewSystemID(), KindSpy, geometry.Point2D{})
	pkt := packet.NewProtected(packet.KindTriangleMessenger, geometry.Point2D{})
	pkt.Protected.CurrentKind = packet.KindSquareMessenger

	square := newPort(port.Square, false)
	outputs := []OutputCandidate{{Port: square, Compatible: false, Usable: true}}
	s.processSpy(pkt, outputs, newCtx(1))
	require.Equal(t, packet.KindTriangleMessenger, pkt.Protected.CurrentKind)
}

func TestSpyTeleportsToAnotherSpySystem(t *testing.T) {
	src := New(ids.NewSystemID(), KindSpy, geometry.Point2D{})
	target := New(ids.NewSystemID(), KindSpy, geometry.Point2D{X: 500, Y: 500})
	targetOut := newPort(port.Square, false)
	target.OutputPorts = []*port.Port{targetOut}

	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	ctx := newCtx(1)
	ctx.OtherSystemsOfKind = []*System{target}

	result := src.processSpy(pkt, nil, ctx)
	require.Same(t, target, result.TeleportedTo)
	require.Same(t, targetOut, result.PlacedOnPort)
	require.Same(t, pkt, targetOut.CurrentPacket)
	require.False(t, pkt.CoinAwardPending, "a teleport hop never awards coins")
}

func TestSaboteurForcesMinimumNoise(t *testing.T) {
	s := New(ids.NewSystemID(), KindSaboteur, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	pkt.NoiseLevel = 0

	triangle := newPort(port.Triangle, false)
	outputs := []OutputCandidate{{Port: triangle, Compatible: false, Usable: true}}

	result := s.processSaboteur(pkt, outputs, newCtx(1))
	require.GreaterOrEqual(t, pkt.NoiseLevel, 1.0)
	require.Same(t, triangle, result.PlacedOnPort)
}

func TestSaboteurNeverConvertsProtectedToTrojan(t *testing.T) {
	s := New(ids.NewSystemID(), KindSaboteur, geometry.Point2D{})
	pkt := packet.NewProtected(packet.KindSquareMessenger, geometry.Point2D{})

	s.processSaboteur(pkt, nil, newCtx(1))
	require.Equal(t, packet.KindProtected, pkt.Kind, "protected packets are reverted, never converted to trojan")
}

func TestSaboteurPrefersIncompatiblePort(t *testing.T) {
	s := New(ids.NewSystemID(), KindSaboteur, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})

	square := newPort(port.Square, false)
	triangle := newPort(port.Triangle, false)
	outputs := []OutputCandidate{
		{Port: square, Compatible: true, Usable: true},
		{Port: triangle, Compatible: false, Usable: true},
	}
	result := s.processSaboteur(pkt, outputs, newCtx(1))
	require.Same(t, triangle, result.PlacedOnPort)
}

func TestVPNWrapsMessengerThenRevertsOnFailure(t *testing.T) {
	s := New(ids.NewSystemID(), KindVPN, geometry.Point2D{})
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})

	s.processVPN(pkt, nil, newCtx(1))
	require.Equal(t, packet.KindProtected, pkt.Kind)
	require.Equal(t, packet.KindSquareMessenger, pkt.Protected.OriginalKind)
	require.Len(t, s.Storage, 1)

	s.FailVPN()
	require.Equal(t, packet.KindSquareMessenger, pkt.Kind)
	require.Nil(t, pkt.Protected)
	require.False(t, s.IsUsable())
}

func TestAntiTrojanNeutralizesTrojansInRadius(t *testing.T) {
	s := New(ids.NewSystemID(), KindAntiTrojan, geometry.Point2D{X: 0, Y: 0})
	near := packet.New(packet.KindTrojan, geometry.Point2D{X: 10, Y: 0})
	far := packet.New(packet.KindTrojan, geometry.Point2D{X: 1000, Y: 0})

	s.ScanAndNeutralize([]*packet.Packet{near, far})
	require.Equal(t, packet.KindSquareMessenger, near.Kind)
	require.Equal(t, packet.KindTrojan, far.Kind)
}

func TestDistributorSplitsBulkIntoBits(t *testing.T) {
	s := New(ids.NewSystemID(), KindDistributor, geometry.Point2D{})
	bulk := packet.New(packet.KindBulkSmall, geometry.Point2D{})

	result := s.ProcessPacket(bulk, nil, newCtx(1))
	require.True(t, result.Destroyed)
	require.False(t, bulk.Active)
	require.Len(t, s.Storage, bulk.Size)
	for _, bit := range s.Storage {
		require.Equal(t, packet.KindBit, bit.Kind)
		require.Equal(t, bulk.ID, bit.Bulk.BulkPacketID)
		require.Equal(t, bulk.Size, bit.Bulk.OriginalSize)
	}
}

func TestMergerReassemblesBulkOnceAllBitsArrive(t *testing.T) {
	s := New(ids.NewSystemID(), KindMerger, geometry.Point2D{})
	bulkID := ids.NewPacketID()

	makeBit := func() *packet.Packet {
		b := packet.New(packet.KindBit, geometry.Point2D{})
		b.Bulk = &packet.BulkState{BulkPacketID: bulkID, OriginalSize: 3}
		return b
	}

	square := newPort(port.Square, false)
	outputs := []OutputCandidate{{Port: square, Compatible: true, Usable: true}}

	for i := 0; i < 2; i++ {
		result := s.processMerger(makeBit(), outputs, newCtx(1))
		require.True(t, result.Destroyed)
		require.Nil(t, square.CurrentPacket)
	}

	result := s.processMerger(makeBit(), outputs, newCtx(1))
	require.Same(t, square, result.PlacedOnPort)
	require.Equal(t, packet.KindBulkSmall, square.CurrentPacket.Kind)
	require.Equal(t, 3, square.CurrentPacket.Size)
	require.Empty(t, s.mergerGroups)
}

func TestMergerBuildsBulkLargeAtTenBits(t *testing.T) {
	s := New(ids.NewSystemID(), KindMerger, geometry.Point2D{})
	bulkID := ids.NewPacketID()
	square := newPort(port.Square, false)
	outputs := []OutputCandidate{{Port: square, Compatible: true, Usable: true}}

	var result ProcessResult
	for i := 0; i < 10; i++ {
		b := packet.New(packet.KindBit, geometry.Point2D{})
		b.Bulk = &packet.BulkState{BulkPacketID: bulkID, OriginalSize: 10}
		result = s.processMerger(b, outputs, newCtx(1))
	}
	require.Same(t, square, result.PlacedOnPort)
	require.Equal(t, packet.KindBulkLarge, square.CurrentPacket.Kind)
}
