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

// Package fit places an engraving inside the body of a jewelry blank.
//
// The engraving is confined to the square inscribed in the body, shrunk
// where mounting holes get in the way.  Holes are approximated by their
// bounding boxes; this can remove slightly more area than necessary,
// but guarantees clearance around every hole.
package fit

import (
	"errors"
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/engrave/layout"
	"seehuhn.de/go/engrave/shape"
)

var (
	// ErrNoUsableArea is returned when the holes leave no room for an
	// engraving.
	ErrNoUsableArea = errors.New("no usable area")

	// ErrDegenerateBoundingBox is returned when the engraving or the
	// target area has zero width or height.
	ErrDegenerateBoundingBox = errors.New("degenerate bounding box")
)

// DefaultMargin is the fraction of the usable rectangle filled by the
// engraving, along its tighter axis.
const DefaultMargin = 0.95

// InscribedSquare returns the axis-parallel square inscribed in c.
func InscribedSquare(c shape.Circle) rect.Rect {
	half := c.Radius * math.Sqrt2 / 2
	return rect.Rect{
		LLx: c.Center.X - half,
		LLy: c.Center.Y - half,
		URx: c.Center.X + half,
		URy: c.Center.Y + half,
	}
}

// UsableRect returns the part of the square inscribed in body which is
// clear of the holes.
//
// Every hole whose bounding box overlaps the horizontal extent of the
// rectangle and crosses its top (or else bottom) edge moves this edge to
// the far side of the hole.  Left and right edges are treated the same
// way.  A hole which still overlaps the rectangle after this, because
// its box lies inside without crossing an edge, cuts the rectangle on the
// side facing the hole: along the axis where the hole centre is further
// from the body centre.  The holes are applied in order.
func UsableRect(body shape.Circle, holes []shape.Circle) (rect.Rect, error) {
	r := InscribedSquare(body)
	for _, hole := range holes {
		h := hole.Bounds()

		if h.URx > r.LLx && h.LLx < r.URx {
			if h.LLy < r.URy && h.URy > r.URy {
				r.URy = h.LLy
			} else if h.URy > r.LLy && h.LLy < r.LLy {
				r.LLy = h.URy
			}
		}

		if h.URy > r.LLy && h.LLy < r.URy {
			if h.LLx < r.URx && h.URx > r.URx {
				r.URx = h.LLx
			} else if h.URx > r.LLx && h.LLx < r.LLx {
				r.LLx = h.URx
			}
		}

		if h.URx > r.LLx && h.LLx < r.URx && h.URy > r.LLy && h.LLy < r.URy {
			d := hole.Center.Sub(body.Center)
			switch {
			case math.Abs(d.Y) >= math.Abs(d.X) && d.Y > 0:
				r.URy = h.LLy
			case math.Abs(d.Y) >= math.Abs(d.X):
				r.LLy = h.URy
			case d.X > 0:
				r.URx = h.LLx
			default:
				r.LLx = h.URx
			}
		}
	}

	if !(r.URx > r.LLx && r.URy > r.LLy) {
		return rect.Rect{}, fmt.Errorf("%w: holes leave [%g,%g]x[%g,%g]",
			ErrNoUsableArea, r.LLx, r.URx, r.LLy, r.URy)
	}
	return r, nil
}

// Transform is a uniform scaling about the origin, followed by a
// translation.
type Transform struct {
	Scale  float64
	DX, DY float64
}

// Matrix returns the transformation as an affine matrix.
func (t Transform) Matrix() matrix.Matrix {
	return matrix.Matrix{t.Scale, 0, 0, t.Scale, t.DX, t.DY}
}

// Apply transforms all polygons.  The input is not modified.
func (t Transform) Apply(polys []shape.Polygon) []shape.Polygon {
	m := t.Matrix()
	res := make([]shape.Polygon, len(polys))
	for i, p := range polys {
		res[i] = p.Transform(m)
	}
	return res
}

// Compute returns the transformation which maps src into the centre of
// dst, preserving the aspect ratio.  The scaled source fills the fraction
// margin of dst along the tighter axis.
func Compute(src, dst rect.Rect, margin float64) (Transform, error) {
	sw, sh := shape.Width(src), shape.Height(src)
	dw, dh := shape.Width(dst), shape.Height(dst)
	if !(sw > 0 && sh > 0) {
		return Transform{}, fmt.Errorf("%w: source is %gx%g", ErrDegenerateBoundingBox, sw, sh)
	}
	if !(dw > 0 && dh > 0) {
		return Transform{}, fmt.Errorf("%w: target is %gx%g", ErrDegenerateBoundingBox, dw, dh)
	}

	s := margin * min(dw/sw, dh/sh)
	sc := shape.Center(src)
	dc := shape.Center(dst)
	return Transform{
		Scale: s,
		DX:    dc.X - s*sc.X,
		DY:    dc.Y - s*sc.Y,
	}, nil
}

// Result describes a fitted engraving.
type Result struct {
	// Usable is the rectangle available for the engraving.
	Usable rect.Rect

	Transform Transform

	// Polygons are the transformed engraving outlines.
	Polygons []shape.Polygon
}

// Engraving fits polys into the usable area of lay.  If margin is zero,
// DefaultMargin is used.
func Engraving(lay *layout.Layout, polys []shape.Polygon, margin float64) (*Result, error) {
	if margin == 0 {
		margin = DefaultMargin
	}
	if !(margin > 0 && margin < 1) {
		return nil, fmt.Errorf("fit: invalid margin %g", margin)
	}

	usable, err := UsableRect(lay.Body, lay.Holes)
	if err != nil {
		return nil, err
	}

	src, ok := shape.Bounds(polys)
	if !ok {
		return nil, fmt.Errorf("%w: empty engraving", ErrDegenerateBoundingBox)
	}
	t, err := Compute(src, usable, margin)
	if err != nil {
		return nil, err
	}

	return &Result{
		Usable:    usable,
		Transform: t,
		Polygons:  t.Apply(polys),
	}, nil
}
