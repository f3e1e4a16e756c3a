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

// Package shape implements the planar primitives used for jewelry blanks:
// closed polygons and circles.
package shape

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Polygon is a closed polygon.  The closing edge from the last point back
// to the first is implicit unless the polygon has been closed explicitly
// using [Polygon.Closed].
type Polygon []vec.Vec2

// IsClosed reports whether the last point repeats the first one.
func (p Polygon) IsClosed() bool {
	return len(p) > 1 && p[0] == p[len(p)-1]
}

// Open returns p without an explicit closing point.
// The result shares storage with p.
func (p Polygon) Open() Polygon {
	if p.IsClosed() {
		return p[:len(p)-1]
	}
	return p
}

// Closed returns a copy of p which ends with its first point.
func (p Polygon) Closed() Polygon {
	res := make(Polygon, len(p), len(p)+1)
	copy(res, p)
	if len(res) > 0 && !res.IsClosed() {
		res = append(res, res[0])
	}
	return res
}

// Distinct returns the number of distinct points in p.
func (p Polygon) Distinct() int {
	seen := make(map[vec.Vec2]struct{}, len(p))
	for _, pt := range p {
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// Area returns the signed area of the polygon, using the shoelace formula.
// The sign depends on the orientation of the vertices.
func (p Polygon) Area() float64 {
	q := p.Open()
	n := len(q)
	if n < 3 {
		return 0
	}
	var sum float64
	for i, a := range q {
		b := q[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Perimeter returns the length of the closed outline.
func (p Polygon) Perimeter() float64 {
	q := p.Open()
	n := len(q)
	if n < 2 {
		return 0
	}
	var sum float64
	for i, a := range q {
		sum += q[(i+1)%n].Sub(a).Length()
	}
	return sum
}

// Bounds returns the bounding box of p.  The second return value is false
// if p has no points.
func (p Polygon) Bounds() (rect.Rect, bool) {
	if len(p) == 0 {
		return rect.Rect{}, false
	}
	r := rect.Rect{LLx: p[0].X, LLy: p[0].Y, URx: p[0].X, URy: p[0].Y}
	for _, pt := range p[1:] {
		r.LLx = min(r.LLx, pt.X)
		r.LLy = min(r.LLy, pt.Y)
		r.URx = max(r.URx, pt.X)
		r.URy = max(r.URy, pt.Y)
	}
	return r, true
}

// Transform applies the affine map m to every point and returns the result
// as a new polygon.
func (p Polygon) Transform(m matrix.Matrix) Polygon {
	res := make(Polygon, len(p))
	for i, pt := range p {
		res[i] = Apply(m, pt)
	}
	return res
}

// Path converts the polygon to a closed path.
func (p Polygon) Path() *path.Data {
	q := p.Open()
	res := &path.Data{}
	if len(q) == 0 {
		return res
	}
	res = res.MoveTo(q[0])
	for _, pt := range q[1:] {
		res = res.LineTo(pt)
	}
	return res.Close()
}

// Bounds returns the bounding box of all points of all polygons.
// The second return value is false if there are no points at all,
// in which case the returned rectangle must not be used.
func Bounds(polys []Polygon) (rect.Rect, bool) {
	var res rect.Rect
	found := false
	for _, p := range polys {
		r, ok := p.Bounds()
		if !ok {
			continue
		}
		if !found {
			res = r
			found = true
			continue
		}
		res.LLx = min(res.LLx, r.LLx)
		res.LLy = min(res.LLy, r.LLy)
		res.URx = max(res.URx, r.URx)
		res.URy = max(res.URy, r.URy)
	}
	return res, found
}

// Apply maps a point through the affine transformation m.
// The layout of m follows the PDF convention: x' = a*x + c*y + e,
// y' = b*x + d*y + f.
func Apply(m matrix.Matrix, v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// Circle is a circle in the plane.
type Circle struct {
	Center vec.Vec2
	Radius float64
}

// Bounds returns the axis-aligned bounding box of the circle.
func (c Circle) Bounds() rect.Rect {
	return rect.Rect{
		LLx: c.Center.X - c.Radius,
		LLy: c.Center.Y - c.Radius,
		URx: c.Center.X + c.Radius,
		URy: c.Center.Y + c.Radius,
	}
}

// Area returns the area enclosed by the circle.
func (c Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// kappa is the control point distance for approximating a quarter circle
// by a cubic Bézier curve.
const kappa = 0.5522847498307936

// Path returns a closed path approximating the circle by four cubic
// Bézier segments, counter-clockwise in a y-up coordinate system.
func (c Circle) Path() *path.Data {
	cx, cy, r := c.Center.X, c.Center.Y, c.Radius
	k := r * kappa
	pt := func(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

	return (&path.Data{}).
		MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy)).
		Close()
}

// Width returns the horizontal extent of r.
func Width(r rect.Rect) float64 {
	return r.URx - r.LLx
}

// Height returns the vertical extent of r.
func Height(r rect.Rect) float64 {
	return r.URy - r.LLy
}

// Center returns the centre point of r.
func Center(r rect.Rect) vec.Vec2 {
	return vec.Vec2{X: (r.LLx + r.URx) / 2, Y: (r.LLy + r.URy) / 2}
}

// StrictlyInside reports whether inner lies within outer without touching
// any of its edges.
func StrictlyInside(inner, outer rect.Rect) bool {
	return inner.LLx > outer.LLx && inner.LLy > outer.LLy &&
		inner.URx < outer.URx && inner.URy < outer.URy
}
