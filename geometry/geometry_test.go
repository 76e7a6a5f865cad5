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

package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVec2DBasics(t *testing.T) {
	v := Vec2D{X: 3, Y: 4}
	require.Equal(t, 5.0, v.Magnitude())

	n := v.Normalize()
	require.InDelta(t, 1.0, n.Magnitude(), 1e-9)

	require.Equal(t, Vec2D{}, Vec2D{}.Normalize())
}

func TestPathStraightLineLength(t *testing.T) {
	p := NewPath(Point2D{0, 0}, nil, Point2D{100, 0}, false)
	require.InDelta(t, 100.0, p.Length(), 1e-6)

	mid := p.PositionAtProgress(0.5)
	require.InDelta(t, 50.0, mid.X, 1e-6)
	require.InDelta(t, 0.0, mid.Y, 1e-6)
}

func TestPathBendPinnedOnPolyline(t *testing.T) {
	bend := Point2D{50, 50}
	p := NewPath(Point2D{0, 0}, []Point2D{bend}, Point2D{100, 0}, false)
	_, dist, _ := p.ClosestPoint(bend)
	require.InDelta(t, 0.0, dist, 1e-6)
}

func TestPathBendPinnedOnQuadraticBezier(t *testing.T) {
	bend := Point2D{50, 80}
	p := NewPath(Point2D{0, 0}, []Point2D{bend}, Point2D{100, 0}, true)
	_, dist, _ := p.ClosestPoint(bend)
	require.InDelta(t, 0.0, dist, 1.0)
}

func TestPathBendsPinnedOnCatmullRom(t *testing.T) {
	bends := []Point2D{{30, 40}, {60, -20}}
	p := NewPath(Point2D{0, 0}, bends, Point2D{100, 0}, true)
	for _, b := range bends {
		_, dist, _ := p.ClosestPoint(b)
		require.InDelta(t, 0.0, dist, 1.0)
	}
}

func TestClosestPointOnPath(t *testing.T) {
	p := NewPath(Point2D{0, 0}, nil, Point2D{100, 0}, false)
	pos, dist, progress := p.ClosestPoint(Point2D{50, 10})
	require.InDelta(t, 50.0, pos.X, 1e-6)
	require.InDelta(t, 10.0, dist, 1e-6)
	require.InDelta(t, 0.5, progress, 1e-6)
}
