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
)

const sampleLevel = `{
  "levelId": "lvl-1",
  "name": "First Wire",
  "description": "a simple three-node chain",
  "initialWireLength": 500,
  "levelDuration": 30,
  "systems": [
    {
      "type": "ReferenceSystem",
      "id": "source",
      "position": {"x": 0, "y": 0},
      "inputPorts": [],
      "outputPorts": [{"shape": "SQUARE", "position": {"x": 10, "y": 0}}]
    },
    {
      "type": "NormalSystem",
      "id": "mid",
      "position": {"x": 100, "y": 0},
      "inputPorts": [{"shape": "SQUARE", "position": {"x": 90, "y": 0}}],
      "outputPorts": [{"shape": "SQUARE", "position": {"x": 110, "y": 0}}]
    },
    {
      "type": "ReferenceSystem",
      "id": "sink",
      "position": {"x": 200, "y": 0},
      "inputPorts": [{"shape": "SQUARE", "position": {"x": 190, "y": 0}}],
      "outputPorts": []
    }
  ],
  "wireConnections": [
    {
      "id": "w1",
      "sourceSystemId": "source",
      "sourcePosition": {"x": 10, "y": 0},
      "destinationSystemId": "mid",
      "destinationPosition": {"x": 90, "y": 0}
    },
    {
      "id": "w2",
      "sourceSystemId": "mid",
      "sourcePosition": {"x": 110, "y": 0},
      "destinationSystemId": "sink",
      "destinationPosition": {"x": 190, "y": 0}
    }
  ],
  "packetSchedule": [
    {"time": 2.0, "packetType": "SquareMessenger", "sourceId": "source"}
  ]
}`

func TestDecodeBuildsGraph(t *testing.T) {
	l, st, err := Decode([]byte(sampleLevel))
	require.NoError(t, err)
	require.Len(t, l.Systems, 3)
	require.Len(t, l.Wires, 2)
	require.Len(t, l.PacketSchedule, 1)

	require.InDelta(t, 160.0, l.TotalActiveWireLength(), 1e-6)
	require.InDelta(t, 340.0, st.RemainingWireLength, 1e-6)
}

func TestDecodeResolvesPortsByPosition(t *testing.T) {
	l, _, err := Decode([]byte(sampleLevel))
	require.NoError(t, err)

	w := l.Wires["w1"]
	require.NotNil(t, w)
	require.Same(t, l.Systems["source"].OutputPorts[0], w.SourcePort)
	require.Same(t, l.Systems["mid"].InputPorts[0], w.DestinationPort)
	require.True(t, w.SourcePort.IsConnected)
	require.True(t, w.DestinationPort.IsConnected)
}

func TestEncodeDecodeRoundTripsSystemCount(t *testing.T) {
	l, _, err := Decode([]byte(sampleLevel))
	require.NoError(t, err)

	data, err := l.Encode()
	require.NoError(t, err)

	l2, _, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, l2.Systems, len(l.Systems))
	require.Len(t, l2.Wires, len(l.Wires))
	require.InDelta(t, l.TotalActiveWireLength(), l2.TotalActiveWireLength(), 1e-6)
}
