// seehuhn.de/go/engrave - turn raster images into jewelry blank outlines
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package document

import (
	"math"

	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/engrave/shape"
)

// A Converter decides how an engraving outline is represented in the
// document.
type Converter interface {
	Convert(p shape.Polygon) Primitive
}

// PolylineConverter stores every outline as a closed polyline.
type PolylineConverter struct{}

// Convert implements the [Converter] interface.
func (PolylineConverter) Convert(p shape.Polygon) Primitive {
	return &Polyline{Points: p.Open()}
}

// ContainedConverter uses Converter where the result lies strictly inside
// Area, and a closed polyline elsewhere.  Curved primitives can bulge out
// of the bounding box of their vertices.
type ContainedConverter struct {
	Converter Converter
	Area      rect.Rect
}

// Convert implements the [Converter] interface.
func (c ContainedConverter) Convert(p shape.Polygon) Primitive {
	if c.Converter != nil {
		res := c.Converter.Convert(p)
		b := res.Bounds()
		if b.LLx > c.Area.LLx && b.LLy > c.Area.LLy && b.URx < c.Area.URx && b.URy < c.Area.URy {
			return res
		}
	}
	return &Polyline{Points: p.Open()}
}

// SmoothConverter stores outlines which bend gently everywhere as splines
// through their vertices, and all other outlines as polylines.
//
// An outline counts as smooth if both the mean turning angle (in radians)
// and the mean curvature at the vertices are below the thresholds.
// Outlines with fewer than four vertices are never smooth.
type SmoothConverter struct {
	MaxAngle     float64 // zero selects 0.1
	MaxCurvature float64 // zero selects 0.1
}

// Convert implements the [Converter] interface.
func (c SmoothConverter) Convert(p shape.Polygon) Primitive {
	q := p.Open()
	if c.IsSmooth(q) {
		return &Spline{FitPoints: q}
	}
	return &Polyline{Points: q}
}

// IsSmooth reports whether p is represented as a spline.
func (c SmoothConverter) IsSmooth(p shape.Polygon) bool {
	maxAngle := c.MaxAngle
	if maxAngle == 0 {
		maxAngle = 0.1
	}
	maxCurv := c.MaxCurvature
	if maxCurv == 0 {
		maxCurv = 0.1
	}

	q := p.Open()
	n := len(q)
	if n < 4 {
		return false
	}

	var totalAngle, totalCurv float64
	count := 0
	for i := range n {
		p1, p2, p3 := q[i], q[(i+1)%n], q[(i+2)%n]
		v1 := p2.Sub(p1)
		v2 := p3.Sub(p2)
		if v1.Length() == 0 || v2.Length() == 0 {
			continue
		}
		cross := v1.X*v2.Y - v1.Y*v2.X
		totalAngle += math.Abs(math.Atan2(cross, v1.Dot(v2)))
		totalCurv += curvature(p1.Sub(p2).Length(), v2.Length(), p3.Sub(p1).Length())
		count++
	}
	if count == 0 {
		return false
	}
	return totalAngle/float64(count) < maxAngle && totalCurv/float64(count) < maxCurv
}

// curvature returns the inverse radius of the circle through three points
// with pairwise distances a, b and c.  Collinear points have infinite
// curvature here, so that they never count as smooth.
func curvature(a, b, c float64) float64 {
	s := (a + b + c) / 2
	area2 := s * (s - a) * (s - b) * (s - c)
	if area2 <= 0 {
		return math.Inf(1)
	}
	return 4 * math.Sqrt(area2) / (a * b * c)
}
