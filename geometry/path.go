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

import "math"

// sample is a single point of a path's dense discretization, tagged with its
// cumulative arc length from the path start.
type sample struct {
	pos    Point2D
	tangent Vec2D
	arcLen float64
}

// Path is the routed shape of a wire: a source port position, up to three
// ordered bends, and a destination port position. Bends always lie exactly
// on the resulting path (spec.md §4.1, "pinned").
type Path struct {
	controlPoints []Point2D
	smooth        bool
	samples       []sample
	totalLength   float64
}

// NewPath builds a Path from the source, ordered bends and destination. When
// smooth is false the path is the rigid polyline through the control points.
// When smooth is true: 2 control points degenerate to a line, exactly 3 use
// a quadratic Bézier pinned at the bend, and 4 or more use a Catmull-Rom
// spline that passes through every control point exactly.
func NewPath(source Point2D, bends []Point2D, destination Point2D, smooth bool) *Path {
	cps := make([]Point2D, 0, len(bends)+2)
	cps = append(cps, source)
	cps = append(cps, bends...)
	cps = append(cps, destination)

	p := &Path{controlPoints: cps, smooth: smooth}
	p.build()
	return p
}

// adaptiveSteps implements spec.md §4.1's `max(15, floor(segmentLen/5))` rule.
func adaptiveSteps(segLen float64) int {
	steps := int(math.Floor(segLen / 5))
	if steps < 15 {
		steps = 15
	}
	return steps
}

func (p *Path) build() {
	p.samples = p.samples[:0]
	switch {
	case len(p.controlPoints) < 2:
		return
	case !p.smooth || len(p.controlPoints) == 2:
		p.buildPolyline()
	case len(p.controlPoints) == 3:
		p.buildQuadraticBezier()
	default:
		p.buildCatmullRom()
	}
	p.accumulateArcLength()
}

func (p *Path) appendSample(pos Point2D, tangent Vec2D) {
	p.samples = append(p.samples, sample{pos: pos, tangent: tangent.Normalize()})
}

func (p *Path) buildPolyline() {
	cps := p.controlPoints
	for i := 0; i < len(cps)-1; i++ {
		a, b := cps[i], cps[i+1]
		tangent := b.Sub(a)
		steps := adaptiveSteps(tangent.Magnitude())
		if i > 0 {
			// Avoid duplicating the shared endpoint between segments.
		} else {
			p.appendSample(a, tangent)
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			pos := Point2D{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
			p.appendSample(pos, tangent)
		}
	}
}

// pinnedBezierControl returns the Bézier control point C such that the
// quadratic curve B(t)=(1-t)^2*p0 + 2(1-t)t*C + t^2*p2 passes exactly
// through `bend` at t=0.5, pinning the bend on the path as spec.md requires.
func pinnedBezierControl(p0, bend, p2 Point2D) Point2D {
	return Point2D{
		X: 2*bend.X - 0.5*p0.X - 0.5*p2.X,
		Y: 2*bend.Y - 0.5*p0.Y - 0.5*p2.Y,
	}
}

func (p *Path) buildQuadraticBezier() {
	p0, bend, p2 := p.controlPoints[0], p.controlPoints[1], p.controlPoints[2]
	c := pinnedBezierControl(p0, bend, p2)
	segLen := p0.DistanceTo(bend) + bend.DistanceTo(p2)
	steps := adaptiveSteps(segLen)

	eval := func(t float64) Point2D {
		u := 1 - t
		return Point2D{
			X: u*u*p0.X + 2*u*t*c.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*c.Y + t*t*p2.Y,
		}
	}

	prev := eval(0)
	p.appendSample(prev, Vec2D{c.X - p0.X, c.Y - p0.Y})
	for s := 1; s <= steps; s++ {
		t := float64(s) / float64(steps)
		cur := eval(t)
		p.appendSample(cur, cur.Sub(prev))
		prev = cur
	}
}

func catmullRomPoint(p0, p1, p2, p3 Point2D, t float64) Point2D {
	t2 := t * t
	t3 := t2 * t
	x := 0.5 * ((2 * p1.X) +
		(-p0.X+p2.X)*t +
		(2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 +
		(-p0.X+3*p1.X-3*p2.X+p3.X)*t3)
	y := 0.5 * ((2 * p1.Y) +
		(-p0.Y+p2.Y)*t +
		(2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 +
		(-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3)
	return Point2D{x, y}
}

func (p *Path) buildCatmullRom() {
	cps := p.controlPoints
	n := len(cps)
	padded := make([]Point2D, 0, n+2)
	padded = append(padded, Point2D{2*cps[0].X - cps[1].X, 2*cps[0].Y - cps[1].Y})
	padded = append(padded, cps...)
	padded = append(padded, Point2D{2*cps[n-1].X - cps[n-2].X, 2*cps[n-1].Y - cps[n-2].Y})

	first := true
	for i := 0; i < n-1; i++ {
		p0, p1, p2, p3 := padded[i], padded[i+1], padded[i+2], padded[i+3]
		steps := adaptiveSteps(p1.DistanceTo(p2))
		prev := p1
		if first {
			p.appendSample(prev, catmullRomPoint(p0, p1, p2, p3, 0.01).Sub(prev))
			first = false
		}
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			cur := catmullRomPoint(p0, p1, p2, p3, t)
			p.appendSample(cur, cur.Sub(prev))
			prev = cur
		}
	}
}

func (p *Path) accumulateArcLength() {
	if len(p.samples) == 0 {
		return
	}
	acc := 0.0
	p.samples[0].arcLen = 0
	for i := 1; i < len(p.samples); i++ {
		acc += p.samples[i].pos.DistanceTo(p.samples[i-1].pos)
		p.samples[i].arcLen = acc
	}
	p.totalLength = acc
}

// Length returns the total path length under the current sampling mode.
func (p *Path) Length() float64 {
	return p.totalLength
}

// Bends returns the ordered bend control points (excludes source/destination).
func (p *Path) Bends() []Point2D {
	if len(p.controlPoints) <= 2 {
		return nil
	}
	return append([]Point2D(nil), p.controlPoints[1:len(p.controlPoints)-1]...)
}

// PositionAtProgress linearly maps progress in [0,1] to arc length across the
// path's discretization and returns the interpolated position.
func (p *Path) PositionAtProgress(progress float64) Point2D {
	pos, _ := p.sampleAtProgress(progress)
	return pos
}

// TangentAtProgress returns the unit tangent direction of the path at the
// given progress, used to set a packet's movement vector.
func (p *Path) TangentAtProgress(progress float64) Vec2D {
	_, tangent := p.sampleAtProgress(progress)
	return tangent
}

func (p *Path) sampleAtProgress(progress float64) (Point2D, Vec2D) {
	if len(p.samples) == 0 {
		return Point2D{}, Vec2D{}
	}
	if progress <= 0 {
		return p.samples[0].pos, p.samples[0].tangent
	}
	if progress >= 1 {
		last := p.samples[len(p.samples)-1]
		return last.pos, last.tangent
	}
	target := progress * p.totalLength
	// Binary search for the bracketing samples by arc length.
	lo, hi := 0, len(p.samples)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if p.samples[mid].arcLen < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return p.samples[0].pos, p.samples[0].tangent
	}
	a, b := p.samples[lo-1], p.samples[lo]
	span := b.arcLen - a.arcLen
	t := 0.0
	if span > 0 {
		t = (target - a.arcLen) / span
	}
	pos := Point2D{
		X: a.pos.X + (b.pos.X-a.pos.X)*t,
		Y: a.pos.Y + (b.pos.Y-a.pos.Y)*t,
	}
	return pos, b.tangent
}

// ClosestPoint returns the closest point on the path to q, the distance to
// it, and the progress in [0,1] at which it occurs.
func (p *Path) ClosestPoint(q Point2D) (Point2D, float64, float64) {
	if len(p.samples) == 0 {
		return q, 0, 0
	}
	bestDist := math.Inf(1)
	bestPos := p.samples[0].pos
	bestArc := 0.0
	for i := 0; i < len(p.samples)-1; i++ {
		a, b := p.samples[i].pos, p.samples[i+1].pos
		proj, t := closestPointOnSegment(a, b, q)
		d := proj.DistanceTo(q)
		if d < bestDist {
			bestDist = d
			bestPos = proj
			segLen := p.samples[i+1].arcLen - p.samples[i].arcLen
			bestArc = p.samples[i].arcLen + segLen*t
		}
	}
	progress := 0.0
	if p.totalLength > 0 {
		progress = bestArc / p.totalLength
	}
	return bestPos, bestDist, progress
}

func closestPointOnSegment(a, b, q Point2D) (Point2D, float64) {
	ab := b.Sub(a)
	len2 := ab.Dot(ab)
	if len2 == 0 {
		return a, 0
	}
	t := q.Sub(a).Dot(ab) / len2
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return Point2D{a.X + ab.X*t, a.Y + ab.Y*t}, t
}

// NearestSegmentIndex returns the index i such that inserting a new point at
// q projects onto the segment [controlPoints[i], controlPoints[i+1]] of the
// *rigid* control polygon — used by addBend to pick an insertion index.
func (p *Path) NearestSegmentIndex(q Point2D) int {
	best := 0
	bestDist := math.Inf(1)
	for i := 0; i < len(p.controlPoints)-1; i++ {
		proj, _ := closestPointOnSegment(p.controlPoints[i], p.controlPoints[i+1], q)
		if dist := proj.DistanceTo(q); dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

// ProjectOntoPath returns q projected onto the nearest segment of the rigid
// control polygon, for pinning a newly inserted or moved bend.
func (p *Path) ProjectOntoPath(q Point2D) Point2D {
	best := q
	bestDist := math.Inf(1)
	for i := 0; i < len(p.controlPoints)-1; i++ {
		proj, _ := closestPointOnSegment(p.controlPoints[i], p.controlPoints[i+1], q)
		if d := proj.DistanceTo(q); d < bestDist {
			bestDist = d
			best = proj
		}
	}
	return best
}
