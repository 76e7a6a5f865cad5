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
	"github.com/HisEgo/BlueprintHell/ids"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/system"
	"github.com/HisEgo/BlueprintHell/wire"
)

// WireFromSourcePort finds the wire (if any) whose output-facing endpoint is
// p, the lookup the engine needs to turn a system's output ports into
// routing candidates (spec.md §4.6 step 4) without this package depending on
// engine, mirroring the teacher's wires-keyed-by-endpoint adjacency in
// cmd/pineconesim/simulator/links.go.
func (l *Level) WireFromSourcePort(p *port.Port) *wire.WireConnection {
	for _, w := range l.Wires {
		if w.SourcePort == p {
			return w
		}
	}
	return nil
}

// WireToDestinationPort finds the wire (if any) whose input-facing endpoint
// is p.
func (l *Level) WireToDestinationPort(p *port.Port) *wire.WireConnection {
	for _, w := range l.Wires {
		if w.DestinationPort == p {
			return w
		}
	}
	return nil
}

// HasDirectedPath reports whether toID is reachable from fromID by following
// active, non-destroyed wires in their source->destination direction,
// through non-failed systems only. Used by the directed form of spec.md
// §4.8's network-disconnected check.
func (l *Level) HasDirectedPath(fromID, toID ids.SystemID) bool {
	return l.reachable(fromID, toID, true)
}

// HasUndirectedPath is the tutorial-level fallback of spec.md §4.8/§9: a
// reachability check that also follows wires against their direction.
func (l *Level) HasUndirectedPath(fromID, toID ids.SystemID) bool {
	return l.reachable(fromID, toID, false)
}

func (l *Level) isUsable(id ids.SystemID) bool {
	s, ok := l.Systems[id]
	return ok && s.State != system.StateFailed
}

func (l *Level) reachable(fromID, toID ids.SystemID, directed bool) bool {
	if !l.isUsable(fromID) || !l.isUsable(toID) {
		return false
	}
	if fromID == toID {
		return true
	}
	visited := map[ids.SystemID]bool{fromID: true}
	queue := []ids.SystemID{fromID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, w := range l.Wires {
			if !w.Active || w.Destroyed {
				continue
			}
			var next ids.SystemID
			switch {
			case w.SourceSystemID == cur:
				next = w.DestinationSystemID
			case !directed && w.DestinationSystemID == cur:
				next = w.SourceSystemID
			default:
				continue
			}
			if !l.isUsable(next) || visited[next] {
				continue
			}
			if next == toID {
				return true
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return false
}
