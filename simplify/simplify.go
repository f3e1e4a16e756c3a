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

// Package simplify reduces the number of vertices of traced outlines.
//
// Polygons are simplified with the Ramer-Douglas-Peucker algorithm.  The
// tolerance is relative to the perimeter of each polygon, so that the
// result does not depend on the resolution of the traced image.
//
// Each ring is split into two open chains, which are decimated by the
// path simplifier of github.com/paulhankin/plot.  A chain whose decimated
// form does not keep its end points, or strays further than the
// tolerance from the input, is simplified by the local implementation
// instead.
package simplify

import (
	"math"

	"github.com/paulhankin/plot/paths"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/shape"
)

// DefaultTolerance is the relative simplification tolerance used for
// engraving outlines.
const DefaultTolerance = 0.000125

// Options controls [Polygons].
type Options struct {
	// Tolerance is the maximal distance between the original and the
	// simplified outline, as a fraction of the perimeter.  Zero leaves the
	// polygons unchanged.
	Tolerance float64

	// MinArea is the area threshold for the polygons to keep.  Polygons
	// whose absolute area is less than or equal to MinArea are dropped.
	MinArea float64
}

// Polygons simplifies all polygons and drops the ones which are too small.
// A polygon is only dropped if its input area is at most MinArea; if
// simplification shrinks a larger polygon below the threshold, the
// unsimplified polygon is kept.  The surviving polygons are explicitly
// closed.  The second return value gives the number of dropped polygons.
func Polygons(polys []shape.Polygon, opts Options) ([]shape.Polygon, int) {
	var res []shape.Polygon
	dropped := 0
	for _, p := range polys {
		q := Polygon(p, opts.Tolerance)
		if math.Abs(q.Area()) <= opts.MinArea {
			if math.Abs(p.Area()) <= opts.MinArea {
				dropped++
				continue
			}
			q = p.Closed()
		}
		res = append(res, q)
	}
	return res, dropped
}

// Polygon simplifies a single closed polygon.  The result is explicitly
// closed.  If p has at least three distinct points, so has the result.
func Polygon(p shape.Polygon, tolerance float64) shape.Polygon {
	ring := p.Open()
	n := len(ring)
	if tolerance <= 0 || n < 4 {
		return p.Closed()
	}
	eps := tolerance * p.Perimeter()

	// Split the ring into two chains at the point farthest from the
	// first point.
	far := 0
	var farDist float64
	for i := 1; i < n; i++ {
		if d := ring[i].Sub(ring[0]).Length(); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return p.Closed()
	}

	keep := make([]bool, n+1)
	keep[0] = true
	keep[far] = true
	keep[n] = true
	chain := append(ring[:n:n], ring[0]) // ring[n] is the first point again
	decimate(chain, 0, far, eps, keep)
	decimate(chain, far, n, eps, keep)

	res := make(shape.Polygon, 0, n+1)
	for i := range n {
		if keep[i] {
			res = append(res, ring[i])
		}
	}

	if len(res) < 3 {
		// Everything lies within eps of the line between the two split
		// points.  Keep the most distant point, so that the polygon does
		// not collapse.
		best, bestDist := -1, -1.0
		for i := 1; i < n; i++ {
			if i == far {
				continue
			}
			if d := segmentDist(ring[i], ring[0], ring[far]); d > bestDist {
				best, bestDist = i, d
			}
		}
		if best >= 0 {
			keep[best] = true
			res = res[:0]
			for i := range n {
				if keep[i] {
					res = append(res, ring[i])
				}
			}
		}
	}
	return res.Closed()
}

// decimate sets keep[i] for the points of pts[first:last+1] which survive
// simplification with tolerance eps.
func decimate(pts []vec.Vec2, first, last int, eps float64, keep []bool) {
	chain := pts[first : last+1]
	v := make([]paths.Vec2, len(chain))
	for i, pt := range chain {
		v[i] = paths.Vec2{pt.X, pt.Y}
	}
	ps := &paths.Paths{P: []paths.Path{{V: v}}}
	ps.Simplify(eps)
	if len(ps.P) == 1 && markSubsequence(chain, ps.P[0].V, eps, keep[first:last+1]) {
		return
	}
	mark(pts, first, last, eps, keep)
}

// markSubsequence sets keep[i] for the points of chain listed in simple.
// It returns false and leaves keep unchanged unless simple is a
// subsequence of chain with the same end points, and every point of chain
// lies within eps of the simplified chain.
func markSubsequence(chain []vec.Vec2, simple []paths.Vec2, eps float64, keep []bool) bool {
	if len(simple) < 2 {
		return false
	}
	idx := make([]int, 0, len(simple))
	j := 0
	for _, v := range simple {
		for j < len(chain) && (chain[j].X != v[0] || chain[j].Y != v[1]) {
			j++
		}
		if j == len(chain) {
			return false
		}
		idx = append(idx, j)
		j++
	}
	if idx[0] != 0 || idx[len(idx)-1] != len(chain)-1 {
		return false
	}
	for k := 1; k < len(idx); k++ {
		a, b := chain[idx[k-1]], chain[idx[k]]
		for i := idx[k-1] + 1; i < idx[k]; i++ {
			if segmentDist(chain[i], a, b) > eps {
				return false
			}
		}
	}
	for _, i := range idx {
		keep[i] = true
	}
	return true
}

// mark sets keep[i] for all points of pts[first:last+1] retained by the
// Douglas-Peucker algorithm with tolerance eps.
func mark(pts []vec.Vec2, first, last int, eps float64, keep []bool) {
	for last-first > 1 {
		idx := -1
		var maxDist float64
		for i := first + 1; i < last; i++ {
			if d := segmentDist(pts[i], pts[first], pts[last]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if idx < 0 || maxDist <= eps {
			return
		}
		keep[idx] = true
		mark(pts, first, idx, eps, keep)
		first = idx
	}
}

// segmentDist returns the distance of p from the line segment a-b.
func segmentDist(p, a, b vec.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Length()
	}
	t := p.Sub(a).Dot(ab) / l2
	t = max(0, min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Length()
}
