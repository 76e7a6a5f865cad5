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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/system"
)

func newPort2(sysID ids.SystemID, isInput bool, pos geometry.Point2D) *port.Port {
	return &port.Port{Shape: port.Square, IsInput: isInput, ParentSystemID: sysID, Position: pos}
}

func newTestLevel(initialLength float64) (*Level, *State) {
	l := New(ids.NewLevelID(), "test", "", initialLength, 30)
	a := system.New("a", system.KindNormal, geometry.Point2D{X: 0, Y: 0})
	b := system.New("b", system.KindNormal, geometry.Point2D{X: 100, Y: 0})
	a.OutputPorts = append(a.OutputPorts, newPort2(a.ID, false, geometry.Point2D{X: 10, Y: 0}))
	b.InputPorts = append(b.InputPorts, newPort2(b.ID, true, geometry.Point2D{X: 90, Y: 0}))
	l.AddSystem(a)
	l.AddSystem(b)
	st := NewState(l)
	return l, st
}

func TestCreateWireConsumesBudget(t *testing.T) {
	l, st := newTestLevel(200)
	a := l.Systems["a"]
	b := l.Systems["b"]

	w, err := l.CreateWire(st, a.OutputPorts[0], b.InputPorts[0])
	require.NoError(t, err)
	require.InDelta(t, 80.0, w.WireLength, 1e-6)
	require.InDelta(t, 120.0, st.RemainingWireLength, 1e-6)
	require.True(t, a.OutputPorts[0].IsConnected)
	require.True(t, b.InputPorts[0].IsConnected)
}

func TestCreateWireRejectsInsufficientBudget(t *testing.T) {
	l, st := newTestLevel(50)
	a := l.Systems["a"]
	b := l.Systems["b"]

	_, err := l.CreateWire(st, a.OutputPorts[0], b.InputPorts[0])
	require.ErrorIs(t, err, ErrInsufficientBudget)
}

func TestCreateWireRejectsSameDirection(t *testing.T) {
	l, st := newTestLevel(200)
	a := l.Systems["a"]

	_, err := l.CreateWire(st, a.OutputPorts[0], a.OutputPorts[0])
	require.Error(t, err)
}

func TestRemoveWireRestoresBudget(t *testing.T) {
	l, st := newTestLevel(200)
	a := l.Systems["a"]
	b := l.Systems["b"]
	w, err := l.CreateWire(st, a.OutputPorts[0], b.InputPorts[0])
	require.NoError(t, err)

	require.NoError(t, l.RemoveWire(st, w.ID))
	require.InDelta(t, 200.0, st.RemainingWireLength, 1e-6)
	require.False(t, a.OutputPorts[0].IsConnected)
	require.False(t, b.InputPorts[0].IsConnected)
}

func TestAddBendChargesCoinAndBudget(t *testing.T) {
	l, st := newTestLevel(200)
	a := l.Systems["a"]
	b := l.Systems["b"]
	w, err := l.CreateWire(st, a.OutputPorts[0], b.InputPorts[0])
	require.NoError(t, err)

	remainingBefore := st.RemainingWireLength
	lengthBefore := w.WireLength
	require.NoError(t, l.AddBend(st, w.ID, geometry.Point2D{X: 50, Y: 30}))
	require.Len(t, w.Bends, 1)
	// The bend is pinned onto the straight wire at (50, 0), so the budget is
	// charged exactly the length the bend adds, which here is zero.
	require.InDelta(t, remainingBefore-(w.WireLength-lengthBefore), st.RemainingWireLength, 1e-6)
	require.Equal(t, int64(-1), st.Stats.Coins.Load())
}

func TestMoveSystemRebuildsIncidentWires(t *testing.T) {
	l, st := newTestLevel(200)
	a := l.Systems["a"]
	b := l.Systems["b"]
	w, err := l.CreateWire(st, a.OutputPorts[0], b.InputPorts[0])
	require.NoError(t, err)

	require.NoError(t, l.MoveSystem(st, "b", geometry.Point2D{X: 120, Y: 0}))
	require.InDelta(t, 100.0, w.CurrentLength(), 1e-6)
}

func TestMergeWiresSumsLength(t *testing.T) {
	l, st := newTestLevel(300)
	a := l.Systems["a"]
	b := l.Systems["b"]
	mid := system.New("mid", system.KindNormal, geometry.Point2D{X: 50, Y: 0})
	mid.InputPorts = append(mid.InputPorts, newPort2("mid", true, geometry.Point2D{X: 45, Y: 0}))
	mid.OutputPorts = append(mid.OutputPorts, newPort2("mid", false, geometry.Point2D{X: 55, Y: 0}))
	l.AddSystem(mid)

	w1, err := l.CreateWire(st, a.OutputPorts[0], mid.InputPorts[0])
	require.NoError(t, err)
	w2, err := l.CreateWire(st, mid.OutputPorts[0], b.InputPorts[0])
	require.NoError(t, err)
	sumBefore := w1.WireLength + w2.WireLength

	merged, err := l.MergeWires(w1.ID, w2.ID)
	require.NoError(t, err)
	require.InDelta(t, sumBefore, merged.WireLength, 1e-6)
	require.Same(t, a.OutputPorts[0], merged.SourcePort)
	require.Same(t, b.InputPorts[0], merged.DestinationPort)
}
