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

package contour

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/dennwc/gotrace"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/shape"
)

// Potrace traces masks using the potrace algorithm.  The resulting
// outlines follow the pixel edges rather than the pixel centres, and
// corners are smoothed by fitting Bézier curves.
//
// The zero value is not useful; use [NewPotrace] to get the default
// settings.
type Potrace struct {
	// TurdSize is the area (in pixels) below which speckles are removed.
	TurdSize int

	// AlphaMax controls corner detection.  Smaller values give more
	// corners, 0 gives a pure polygon.
	AlphaMax float64

	// OptTolerance bounds the error of the curve optimisation step.
	// Zero disables curve optimisation.
	OptTolerance float64

	// Flatness is the maximum distance, in pixels, between a curve and
	// the polygon replacing it.
	Flatness float64
}

// NewPotrace returns a Potrace tracer with the default parameters of the
// potrace program.
func NewPotrace() *Potrace {
	return &Potrace{
		TurdSize:     gotrace.Defaults.TurdSize,
		AlphaMax:     gotrace.Defaults.AlphaMax,
		OptTolerance: gotrace.Defaults.OptTolerance,
		Flatness:     defaultFlatness,
	}
}

// defaultFlatness is the default curve flattening tolerance in pixels.
const defaultFlatness = 0.1

// Trace implements the [Tracer] interface.
func (p *Potrace) Trace(m *gray.Mask) ([]shape.Polygon, error) {
	bm := gotrace.NewBitmap(m.Width, m.Height)
	for y := range m.Height {
		for x := range m.Width {
			if m.Bits[y*m.Width+x] {
				bm.Set(x, y, true)
			}
		}
	}

	params := &gotrace.Params{
		TurdSize:     p.TurdSize,
		TurnPolicy:   gotrace.TurnMinority,
		AlphaMax:     p.AlphaMax,
		OptiCurve:    p.OptTolerance > 0,
		OptTolerance: p.OptTolerance,
	}
	paths, err := gotrace.Trace(bm, params)
	if err != nil {
		return nil, fmt.Errorf("potrace: %w", err)
	}

	flatness := p.Flatness
	if flatness <= 0 {
		flatness = defaultFlatness
	}

	// Holes are children of the outline containing them, islands inside
	// a hole are children of the hole.
	var res []shape.Polygon
	var walk func([]gotrace.Path)
	walk = func(paths []gotrace.Path) {
		for _, path := range paths {
			if poly := flatten(path.Curve, flatness); poly != nil {
				res = append(res, poly)
			}
			walk(path.Childs)
		}
	}
	walk(paths)

	slices.SortStableFunc(res, func(a, b shape.Polygon) int {
		ba, _ := a.Bounds()
		bb, _ := b.Bounds()
		if c := cmp.Compare(ba.LLy, bb.LLy); c != 0 {
			return c
		}
		return cmp.Compare(ba.LLx, bb.LLx)
	})
	return keep(res)
}

// flatten converts a closed potrace curve into a polygon.
func flatten(curve []gotrace.Segment, flatness float64) shape.Polygon {
	if len(curve) == 0 {
		return nil
	}

	// The curve starts at the end point of its last segment.
	cur := toVec(curve[len(curve)-1].Pnt[2])
	var res shape.Polygon
	for _, seg := range curve {
		switch seg.Type {
		case gotrace.TypeCorner:
			c := toVec(seg.Pnt[1])
			res = append(res, c)
		case gotrace.TypeBezier:
			res = flattenCubic(res, cur, toVec(seg.Pnt[0]), toVec(seg.Pnt[1]), toVec(seg.Pnt[2]), flatness)
		}
		cur = toVec(seg.Pnt[2])
		res = append(res, cur)
	}
	return res.Open()
}

// flattenCubic appends the interior points of a cubic Bézier segment from
// p0 to p3 to res.  The number of points is chosen using Wang's formula.
func flattenCubic(res shape.Polygon, p0, p1, p2, p3 vec.Vec2, flatness float64) shape.Polygon {
	d1 := p0.Sub(p1.Mul(2)).Add(p2) // P0 - 2*P1 + P2
	d2 := p1.Sub(p2.Mul(2)).Add(p3) // P1 - 2*P2 + P3

	mDev := max(d1.Length(), d2.Length())
	n := 1
	if mDev > 0 {
		// n = ceil(sqrt(3 * mDev / (4 * ε)))
		nFloat := math.Sqrt(3 * mDev / (4 * flatness))
		if nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		res = append(res, pt)
	}
	return res
}

func toVec(p gotrace.Point) vec.Vec2 {
	return vec.Vec2{X: p.X, Y: p.Y}
}
