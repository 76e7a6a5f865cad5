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
	"errors"

	"github.com/HisEgo/BlueprintHell/geometry"
)

var (
	ErrTooManyBends = errors.New("wire: already has the maximum number of bends")
	ErrBendIndex    = errors.New("wire: bend index out of range")
)

// AddBend inserts a new bend projected onto the nearest current path
// segment, pinning it exactly on the path (spec.md §4.1). The caller
// (level.WiringController) is responsible for enforcing the wire-length
// budget before calling this.
func (w *WireConnection) AddBend(pos geometry.Point2D) error {
	if len(w.Bends) >= MaxBends {
		return ErrTooManyBends
	}
	idx := w.path.NearestSegmentIndex(pos)
	pinned := w.path.ProjectOntoPath(pos)

	bend := WireBend{Position: pinned, Movable: true}
	w.Bends = append(w.Bends, WireBend{})
	copy(w.Bends[idx+1:], w.Bends[idx:])
	w.Bends[idx] = bend
	w.rebuildPath()
	w.WireLength = w.path.Length()
	return nil
}

// MoveBend relocates bend i to newPos, provided newPos lies outside both
// endpoint systems' bounding boxes (spec.md §4.1: "permissive", no other
// collision rule). The caller enforces the wire-length budget.
func (w *WireConnection) MoveBend(i int, newPos geometry.Point2D, sourceBox, destBox BoundingBox) error {
	if i < 0 || i >= len(w.Bends) {
		return ErrBendIndex
	}
	if sourceBox.Contains(newPos) || destBox.Contains(newPos) {
		return ErrBendOutsideSystem
	}
	w.Bends[i].Position = newPos
	w.rebuildPath()
	w.WireLength = w.path.Length()
	return nil
}

var ErrBendOutsideSystem = errors.New("wire: bend must stay outside endpoint system bounds")

// BoundingBox is an axis-aligned box used only to keep bends from landing
// on top of a system (spec.md §4.1).
type BoundingBox struct {
	Min, Max geometry.Point2D
}

func (b BoundingBox) Contains(p geometry.Point2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// IntersectsSegment reports whether the segment a-c crosses this box, used
// by WiringController to refuse wires that pass over a third system (spec.md
// §4.9). Liang-Barsky slab clipping against [0,1] of the segment parameter.
func (b BoundingBox) IntersectsSegment(a, c geometry.Point2D) bool {
	if b.Contains(a) || b.Contains(c) {
		return true
	}
	dx, dy := c.X-a.X, c.Y-a.Y
	tMin, tMax := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > tMax {
				return false
			}
			if t > tMin {
				tMin = t
			}
		} else {
			if t < tMin {
				return false
			}
			if t < tMax {
				tMax = t
			}
		}
		return true
	}
	if !clip(-dx, a.X-b.Min.X) {
		return false
	}
	if !clip(dx, b.Max.X-a.X) {
		return false
	}
	if !clip(-dy, a.Y-b.Min.Y) {
		return false
	}
	if !clip(dy, b.Max.Y-a.Y) {
		return false
	}
	return true
}
