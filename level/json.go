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
	"encoding/json"
	"fmt"

	"github.com/HisEgo/BlueprintHell/geometry"
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/system"
	"github.com/HisEgo/BlueprintHell/wire"
)

// portMatchTolerance is spec.md §6's "position ≈ 1 px" port-matching
// tolerance used when resolving a wire file entry's endpoints against the
// ports already built for its systems.
const portMatchTolerance = 1.0

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p jsonPoint) toPoint() geometry.Point2D { return geometry.Point2D{X: p.X, Y: p.Y} }

func fromPoint(p geometry.Point2D) jsonPoint { return jsonPoint{X: p.X, Y: p.Y} }

type jsonPort struct {
	Shape    string    `json:"shape"`
	Position jsonPoint `json:"position"`
}

type jsonSystem struct {
	Type        string     `json:"type"`
	ID          string     `json:"id"`
	Position    jsonPoint  `json:"position"`
	InputPorts  []jsonPort `json:"inputPorts"`
	OutputPorts []jsonPort `json:"outputPorts"`
}

type jsonWireBend struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonWire struct {
	ID                  string         `json:"id"`
	SourceSystemID      string         `json:"sourceSystemId"`
	SourcePosition      jsonPoint      `json:"sourcePosition"`
	DestinationSystemID string         `json:"destinationSystemId"`
	DestinationPosition jsonPoint      `json:"destinationPosition"`
	Bends               []jsonWireBend `json:"bends,omitempty"`
}

type jsonInjection struct {
	Time       float64 `json:"time"`
	PacketType string  `json:"packetType"`
	SourceID   string  `json:"sourceId"`
}

type jsonLevel struct {
	LevelID           string          `json:"levelId"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	InitialWireLength float64         `json:"initialWireLength"`
	LevelDuration     float64         `json:"levelDuration"`
	Tutorial          bool            `json:"tutorial,omitempty"`
	Systems           []jsonSystem    `json:"systems"`
	WireConnections   []jsonWire      `json:"wireConnections,omitempty"`
	PacketSchedule    []jsonInjection `json:"packetSchedule"`
}

// Decode parses a level file (spec.md §6) into a Level plus the State it
// starts in. Systems and ports are built first so wireConnections can be
// resolved by parent system id, direction and position (within 1px); port
// shape is not compared.
func Decode(data []byte) (*Level, *State, error) {
	var jl jsonLevel
	if err := json.Unmarshal(data, &jl); err != nil {
		return nil, nil, fmt.Errorf("level: decode: %w", err)
	}

	l := New(ids.LevelID(jl.LevelID), jl.Name, jl.Description, jl.InitialWireLength, jl.LevelDuration)
	l.Tutorial = jl.Tutorial

	for _, js := range jl.Systems {
		kind, err := parseSystemKind(js.Type)
		if err != nil {
			return nil, nil, err
		}
		sysID := ids.SystemID(js.ID)
		s := system.New(sysID, kind, js.Position.toPoint())
		for _, jp := range js.InputPorts {
			p, err := buildPort(sysID, jp, true)
			if err != nil {
				return nil, nil, err
			}
			s.InputPorts = append(s.InputPorts, p)
		}
		for _, jp := range js.OutputPorts {
			p, err := buildPort(sysID, jp, false)
			if err != nil {
				return nil, nil, err
			}
			s.OutputPorts = append(s.OutputPorts, p)
		}
		l.AddSystem(s)
	}

	for _, jw := range jl.WireConnections {
		srcSys, ok := l.Systems[ids.SystemID(jw.SourceSystemID)]
		if !ok {
			return nil, nil, fmt.Errorf("level: wire %q references unknown source system %q", jw.ID, jw.SourceSystemID)
		}
		dstSys, ok := l.Systems[ids.SystemID(jw.DestinationSystemID)]
		if !ok {
			return nil, nil, fmt.Errorf("level: wire %q references unknown destination system %q", jw.ID, jw.DestinationSystemID)
		}
		srcPort, err := findPort(srcSys, false, jw.SourcePosition.toPoint())
		if err != nil {
			return nil, nil, fmt.Errorf("level: wire %q: %w", jw.ID, err)
		}
		dstPort, err := findPort(dstSys, true, jw.DestinationPosition.toPoint())
		if err != nil {
			return nil, nil, fmt.Errorf("level: wire %q: %w", jw.ID, err)
		}

		w := wire.NewWireConnection(srcPort, dstPort, l.Settings.SmoothWireCurves)
		if jw.ID != "" {
			w.ID = ids.WireID(jw.ID)
		}
		for _, b := range jw.Bends {
			if err := w.AddBend(geometry.Point2D{X: b.X, Y: b.Y}); err != nil {
				return nil, nil, fmt.Errorf("level: wire %q: %w", jw.ID, err)
			}
		}
		srcPort.IsConnected = true
		dstPort.IsConnected = true
		l.Wires[w.ID] = w
	}

	for _, ji := range jl.PacketSchedule {
		kind, err := parsePacketType(ji.PacketType)
		if err != nil {
			return nil, nil, err
		}
		l.PacketSchedule = append(l.PacketSchedule, &PacketInjection{
			Time:       ji.Time,
			PacketType: kind,
			SourceID:   ids.SystemID(ji.SourceID),
		})
	}

	st := NewState(l)
	st.RemainingWireLength = l.InitialWireLength - l.TotalActiveWireLength()
	return l, st, nil
}

func buildPort(sysID ids.SystemID, jp jsonPort, isInput bool) (*port.Port, error) {
	shape, err := parsePortShape(jp.Shape)
	if err != nil {
		return nil, err
	}
	return &port.Port{
		Shape:          shape,
		IsInput:        isInput,
		ParentSystemID: sysID,
		Position:       jp.Position.toPoint(),
	}, nil
}

func findPort(s *system.System, isInput bool, pos geometry.Point2D) (*port.Port, error) {
	ports := s.OutputPorts
	if isInput {
		ports = s.InputPorts
	}
	for _, p := range ports {
		if p.Position.DistanceTo(pos) <= portMatchTolerance {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no matching port on system %q near (%.2f, %.2f)", s.ID, pos.X, pos.Y)
}

// Encode serializes the level back into spec.md §6's file format.
func (l *Level) Encode() ([]byte, error) {
	jl := jsonLevel{
		LevelID:           string(l.ID),
		Name:              l.Name,
		Description:       l.Description,
		InitialWireLength: l.InitialWireLength,
		LevelDuration:     l.LevelDuration,
		Tutorial:          l.Tutorial,
	}

	for _, s := range l.Systems {
		js := jsonSystem{
			Type:     s.Kind.String(),
			ID:       string(s.ID),
			Position: fromPoint(s.Position),
		}
		for _, p := range s.InputPorts {
			js.InputPorts = append(js.InputPorts, jsonPort{Shape: p.Shape.String(), Position: fromPoint(p.Position)})
		}
		for _, p := range s.OutputPorts {
			js.OutputPorts = append(js.OutputPorts, jsonPort{Shape: p.Shape.String(), Position: fromPoint(p.Position)})
		}
		jl.Systems = append(jl.Systems, js)
	}

	for _, w := range l.Wires {
		jw := jsonWire{
			ID:                  string(w.ID),
			SourceSystemID:      string(w.SourceSystemID),
			SourcePosition:      fromPoint(w.SourcePort.Position),
			DestinationSystemID: string(w.DestinationSystemID),
			DestinationPosition: fromPoint(w.DestinationPort.Position),
		}
		for _, b := range w.Bends {
			jw.Bends = append(jw.Bends, jsonWireBend{X: b.Position.X, Y: b.Position.Y})
		}
		jl.WireConnections = append(jl.WireConnections, jw)
	}

	for _, pi := range l.PacketSchedule {
		jl.PacketSchedule = append(jl.PacketSchedule, jsonInjection{
			Time:       pi.Time,
			PacketType: packetTypeName(pi.PacketType),
			SourceID:   string(pi.SourceID),
		})
	}

	return json.MarshalIndent(jl, "", "  ")
}
