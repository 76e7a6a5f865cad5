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

package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
)

func newTestWire() (*WireConnection, *port.Port, *port.Port) {
	src := &port.Port{Shape: port.Square, IsInput: false, ParentSystemID: "a", Position: geometry.Point2D{X: 0, Y: 0}}
	dst := &port.Port{Shape: port.Square, IsInput: true, ParentSystemID: "b", Position: geometry.Point2D{X: 100, Y: 0}}
	return NewWireConnection(src, dst, false), src, dst
}

func TestWireLengthMatchesStraightLine(t *testing.T) {
	w, _, _ := newTestWire()
	require.InDelta(t, 100.0, w.WireLength, 1e-6)
}

func TestTransferPacketMovesFromPortToWire(t *testing.T) {
	w, src, _ := newTestWire()
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	src.Accept(pkt)

	arrived := w.TransferPacket()
	require.Nil(t, arrived)
	require.Same(t, pkt, w.OnWire)
	require.Nil(t, src.CurrentPacket)
	require.NotNil(t, pkt.CurrentWire)
}

func TestTransferPacketDeliversToDestinationPort(t *testing.T) {
	w, src, dst := newTestWire()
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	src.Accept(pkt)
	w.TransferPacket()

	pkt.CurrentPosition = geometry.Point2D{X: 99, Y: 0}
	arrived := w.TransferPacket()
	require.Same(t, pkt, arrived)
	require.Same(t, pkt, dst.CurrentPacket)
	require.True(t, pkt.CoinAwardPending)
	require.Nil(t, w.OnWire)
}

func TestBulkPacketDestroysWireOnThirdPassage(t *testing.T) {
	w, src, _ := newTestWire()
	for i := 0; i < 2; i++ {
		pkt := packet.New(packet.KindBulkSmall, geometry.Point2D{})
		src.Accept(pkt)
		w.TransferPacket()
		require.False(t, w.Destroyed)
		w.OnWire = nil
	}
	pkt := packet.New(packet.KindBulkSmall, geometry.Point2D{})
	src.Accept(pkt)
	w.TransferPacket()
	require.True(t, w.Destroyed)
	require.False(t, w.Active)
}

func TestOffWireLossThreshold(t *testing.T) {
	w, src, _ := newTestWire()
	pkt := packet.New(packet.KindSquareMessenger, geometry.Point2D{})
	src.Accept(pkt)
	w.TransferPacket()

	pkt.CurrentPosition = geometry.Point2D{X: 10, Y: 20}
	w.UpdatePacketMovement(0, 20)
	require.False(t, pkt.Lost, "deviation exactly at threshold must not be lost")

	pkt.CurrentPosition = geometry.Point2D{X: 10, Y: 20.01}
	w.UpdatePacketMovement(0, 20)
	require.True(t, pkt.Lost, "deviation above threshold must be lost")
}

func TestAddBendPinsOnPath(t *testing.T) {
	w, _, _ := newTestWire()
	require.NoError(t, w.AddBend(geometry.Point2D{X: 50, Y: 30}))
	require.Len(t, w.Bends, 1)
	_, dist, _ := w.path.ClosestPoint(w.Bends[0].Position)
	require.InDelta(t, 0, dist, 1e-6)
}

func TestAddBendRejectsFourth(t *testing.T) {
	w, _, _ := newTestWire()
	for i := 0; i < MaxBends; i++ {
		require.NoError(t, w.AddBend(geometry.Point2D{X: float64(10 * (i + 1)), Y: 5}))
	}
	require.ErrorIs(t, w.AddBend(geometry.Point2D{X: 99, Y: 5}), ErrTooManyBends)
}
