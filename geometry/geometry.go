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

// Package geometry implements the 2D vector math and wire-path sampling
// used to route packets along a system's connections.
package geometry

import "math"

// Point2D is a position in level space.
type Point2D struct {
	X, Y float64
}

// Vec2D is a 2D displacement/velocity.
type Vec2D struct {
	X, Y float64
}

func (p Point2D) Add(v Vec2D) Point2D {
	return Point2D{p.X + v.X, p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point2D) Sub(q Point2D) Vec2D {
	return Vec2D{p.X - q.X, p.Y - q.Y}
}

func (p Point2D) DistanceTo(q Point2D) float64 {
	return p.Sub(q).Magnitude()
}

func (v Vec2D) Add(w Vec2D) Vec2D {
	return Vec2D{v.X + w.X, v.Y + w.Y}
}

func (v Vec2D) Scale(s float64) Vec2D {
	return Vec2D{v.X * s, v.Y * s}
}

func (v Vec2D) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v, or the zero
// vector if v has zero length.
func (v Vec2D) Normalize() Vec2D {
	m := v.Magnitude()
	if m == 0 {
		return Vec2D{}
	}
	return Vec2D{v.X / m, v.Y / m}
}

func (v Vec2D) Dot(w Vec2D) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Perp returns a vector rotated 90 degrees counter-clockwise from v.
func (v Vec2D) Perp() Vec2D {
	return Vec2D{-v.Y, v.X}
}

func (v Vec2D) AsPoint() Point2D {
	return Point2D{v.X, v.Y}
}
