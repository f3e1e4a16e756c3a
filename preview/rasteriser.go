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

package preview

import (
	"cmp"
	"image"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how the interior of a path is determined.
type FillRule int

// These are the supported fill rules.
const (
	NonZero FillRule = iota
	EvenOdd
)

// Rasteriser computes anti-aliased pixel coverage for filled paths.
//
// A Rasteriser can be reused for many paths; its internal buffers are
// kept between calls.
type Rasteriser struct {
	// CTM maps user space to device space (pixels, y pointing down).
	CTM matrix.Matrix

	// Clip is the device space region where coverage is computed.
	Clip image.Rectangle

	// Flatness is the maximal distance, in pixels, between a curve and
	// the line segments used to approximate it.
	Flatness float64

	segs    []segment
	active  []int
	cover   []float32
	area    []float32
	splits  []float64
	bboxSet bool
	bbox    [4]float64 // xMin, yMin, xMax, yMax
}

// segment is a non-horizontal line segment in device space.
type segment struct {
	x0, y0 float64
	x1, y1 float64
	slope  float64 // dx/dy
}

func (s *segment) top() float64    { return min(s.y0, s.y1) }
func (s *segment) bottom() float64 { return max(s.y0, s.y1) }
func (s *segment) xAt(y float64) float64 {
	return s.x0 + s.slope*(y-s.y0)
}

// NewRasteriser returns a rasteriser for the given clip rectangle,
// with the identity transformation.
func NewRasteriser(clip image.Rectangle) *Rasteriser {
	r := &Rasteriser{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffers are kept.
func (r *Rasteriser) Reset(clip image.Rectangle) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.segs = r.segs[:0]
	r.active = r.active[:0]
}

// defaultFlatness is the curve flattening tolerance in pixels.
const defaultFlatness = 0.25

// horizontalLimit is the minimal vertical extent of a segment in device
// space.  Flatter segments contribute nothing to the coverage.
const horizontalLimit = 1e-9

// Fill computes the coverage of the interior of p.  For every pixel row
// which intersects the path, emit is called with the row index, the
// first column and the coverage values (in [0, 1]) of consecutive
// pixels.  The slice is only valid during the call.
func (r *Rasteriser) Fill(p *path.Data, rule FillRule, emit func(y, x int, coverage []float32)) {
	if !r.flatten(p) {
		return
	}

	xMin := max(int(math.Floor(r.bbox[0])), r.Clip.Min.X)
	yMin := max(int(math.Floor(r.bbox[1])), r.Clip.Min.Y)
	xMax := min(int(math.Floor(r.bbox[2]))+1, r.Clip.Max.X)
	yMax := min(int(math.Floor(r.bbox[3]))+1, r.Clip.Max.Y)
	if xMin >= xMax || yMin >= yMax {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.segs, func(a, b segment) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		rowTop, rowBottom := float64(y), float64(y+1)

		for next < len(r.segs) && r.segs[next].top() < rowBottom {
			r.active = append(r.active, next)
			next++
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			s := &r.segs[r.active[i]]
			if s.bottom() <= rowTop {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			if r.accumulate(s, y, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}

		lo, hi := 0, width
		for lo < hi && r.cover[lo] == 0 {
			lo++
		}
		for hi > lo && r.cover[hi-1] == 0 {
			hi--
		}
		if lo < hi {
			emit(y, xMin+lo, r.cover[lo:hi])
		}
	}
}

// flatten converts p into device space line segments and records their
// bounding box.  It reports whether any segments were found.
func (r *Rasteriser) flatten(p *path.Data) bool {
	r.segs = r.segs[:0]
	r.bboxSet = false

	var cur, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if cur != start {
				r.addLine(cur, start)
			}
			cur = p.Coords[k]
			start = cur
			k++
		case path.CmdLineTo:
			r.addLine(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.addQuad(cur, p.Coords[k], p.Coords[k+1])
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.addCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			cur = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if cur != start {
				r.addLine(cur, start)
			}
			cur = start
		}
	}
	// fills always close open subpaths
	if cur != start {
		r.addLine(cur, start)
	}
	return len(r.segs) > 0
}

func (r *Rasteriser) device(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y + m[4],
		Y: m[1]*v.X + m[3]*v.Y + m[5],
	}
}

// deviceDelta applies only the linear part of the CTM.
func (r *Rasteriser) deviceDelta(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*v.X + m[2]*v.Y,
		Y: m[1]*v.X + m[3]*v.Y,
	}
}

func (r *Rasteriser) addLine(a, b vec.Vec2) {
	p := r.device(a)
	q := r.device(b)

	if !r.bboxSet {
		r.bbox = [4]float64{min(p.X, q.X), min(p.Y, q.Y), max(p.X, q.X), max(p.Y, q.Y)}
		r.bboxSet = true
	} else {
		r.bbox[0] = min(r.bbox[0], p.X, q.X)
		r.bbox[1] = min(r.bbox[1], p.Y, q.Y)
		r.bbox[2] = max(r.bbox[2], p.X, q.X)
		r.bbox[3] = max(r.bbox[3], p.Y, q.Y)
	}

	dy := q.Y - p.Y
	if math.Abs(dy) < horizontalLimit {
		return
	}
	r.segs = append(r.segs, segment{
		x0: p.X, y0: p.Y,
		x1: q.X, y1: q.Y,
		slope: (q.X - p.X) / dy,
	})
}

// addQuad flattens a quadratic Bézier curve.  The number of pieces is
// chosen so that the deviation in device space stays below r.Flatness.
func (r *Rasteriser) addQuad(p0, p1, p2 vec.Vec2) {
	dev := r.deviceDelta(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		r.addLine(prev, pt)
		prev = pt
	}
}

// addCubic flattens a cubic Bézier curve, using Wang's formula for the
// number of pieces.
func (r *Rasteriser) addCubic(p0, p1, p2, p3 vec.Vec2) {
	d1 := r.deviceDelta(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.deviceDelta(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(3*m/(4*r.Flatness)))))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addLine(prev, pt)
		prev = pt
	}
}

// accumulate adds the contribution of s within pixel row y to the cover
// and area buffers, which cover the columns xMin to xMax-1.  It reports
// whether the segment intersects the row.
//
// cover[i] holds the signed height of the segment pieces in column i and
// area[i] the part of this height which lies right of the piece, so
// that the coverage of pixel i is the sum of cover[j] for j < i plus
// area[i].  Pieces left of the clip region are added to the first column.
func (r *Rasteriser) accumulate(s *segment, y, xMin, xMax int) bool {
	top := max(float64(y), s.top())
	bottom := min(float64(y+1), s.bottom())
	if bottom <= top {
		return false
	}

	sign := float32(1)
	if s.y1 < s.y0 {
		sign = -1
	}

	xTop, xBottom := s.xAt(top), s.xAt(bottom)
	left := int(math.Floor(min(xTop, xBottom)))
	right := int(math.Floor(max(xTop, xBottom)))
	if left >= xMax {
		return true
	}

	// Split the piece at the pixel column boundaries it crosses.
	r.splits = append(r.splits[:0], top, bottom)
	for x := left + 1; x <= right; x++ {
		yx := s.y0 + (float64(x)-s.x0)/s.slope
		if yx > top && yx < bottom {
			r.splits = append(r.splits, yx)
		}
	}
	if len(r.splits) > 2 {
		slices.Sort(r.splits)
	}

	for i := 1; i < len(r.splits); i++ {
		a, b := r.splits[i-1], r.splits[i]
		if b <= a {
			continue
		}
		h := sign * float32(b-a)
		xm := s.xAt((a + b) / 2)
		col := int(math.Floor(xm))
		switch {
		case col < xMin:
			r.cover[0] += h
			r.area[0] += h
		case col < xMax:
			frac := xm - float64(col)
			r.cover[col-xMin] += h
			r.area[col-xMin] += h * float32(1-frac)
		}
	}
	return true
}

// integrateNonZero turns the accumulated values of one row into coverage,
// in place, using the nonzero winding rule.
func integrateNonZero(cover, area []float32) {
	var sum float32
	for i := range cover {
		v := sum + area[i]
		sum += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd is like integrateNonZero, but uses the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var sum float32
	for i := range cover {
		v := sum + area[i]
		sum += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(int(v/2))
		if v > 1 {
			v = 2 - v
		}
		cover[i] = v
	}
}
