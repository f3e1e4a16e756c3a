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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// zeroLength is the minimal length of a stroked segment in user space.
const zeroLength = 1e-10

// polyline is a flattened subpath in user space.
type polyline struct {
	pts    []vec.Vec2
	closed bool
}

// Stroke computes the coverage of the outline of p, drawn with a pen of
// the given width in user space units.  Lines have round caps and round
// joins.  The coverage is reported as for [Rasteriser.Fill].
//
// The stroke is the union of one rectangle per segment and one disc per
// vertex.  All pieces have the same orientation, so that filling them
// with the nonzero rule paints overlaps once.
func (r *Rasteriser) Stroke(p *path.Data, width float64, emit func(y, x int, coverage []float32)) {
	d := width / 2
	if !(d > 0) {
		return
	}

	outline := &path.Data{}
	for _, sub := range r.subpaths(p) {
		n := len(sub.pts)
		for i, a := range sub.pts {
			outline = r.addDisc(outline, a, d)
			switch {
			case i+1 < n:
				outline = addBar(outline, a, sub.pts[i+1], d)
			case sub.closed && n > 1:
				outline = addBar(outline, a, sub.pts[0], d)
			}
		}
	}
	if len(outline.Cmds) == 0 {
		return
	}
	r.Fill(outline, NonZero, emit)
}

// subpaths flattens p in user space.  Curves are split so that the
// deviation in device space stays below r.Flatness.  A subpath without
// drawing operations is omitted.
func (r *Rasteriser) subpaths(p *path.Data) []polyline {
	var res []polyline
	var start vec.Vec2
	var cur *polyline
	begin := func() vec.Vec2 {
		if cur == nil {
			res = append(res, polyline{pts: []vec.Vec2{start}})
			cur = &res[len(res)-1]
		}
		return cur.pts[len(cur.pts)-1]
	}
	add := func(v vec.Vec2) {
		if last := cur.pts[len(cur.pts)-1]; v.Sub(last).Length() >= zeroLength {
			cur.pts = append(cur.pts, v)
		}
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			start = p.Coords[k]
			cur = nil
			k++
		case path.CmdLineTo:
			begin()
			add(p.Coords[k])
			k++
		case path.CmdQuadTo:
			p0, p1, p2 := begin(), p.Coords[k], p.Coords[k+1]
			n := r.pieces(p0.Sub(p1.Mul(2)).Add(p2).Mul(1.0/3), vec.Vec2{})
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				s := 1 - t
				add(p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t)))
			}
			k += 2
		case path.CmdCubeTo:
			p0, p1, p2, p3 := begin(), p.Coords[k], p.Coords[k+1], p.Coords[k+2]
			n := r.pieces(p0.Sub(p1.Mul(2)).Add(p2), p1.Sub(p2.Mul(2)).Add(p3))
			for i := 1; i <= n; i++ {
				t := float64(i) / float64(n)
				s := 1 - t
				add(p0.Mul(s * s * s).
					Add(p1.Mul(3 * s * s * t)).
					Add(p2.Mul(3 * s * t * t)).
					Add(p3.Mul(t * t * t)))
			}
			k += 3
		case path.CmdClose:
			if cur == nil {
				continue
			}
			if n := len(cur.pts); n > 1 && cur.pts[n-1].Sub(cur.pts[0]).Length() < zeroLength {
				cur.pts = cur.pts[:n-1]
			}
			cur.closed = true
			cur = nil
		}
	}
	return res
}

// pieces returns the number of line segments for a curve with the given
// second differences, using Wang's formula in device space.
func (r *Rasteriser) pieces(d1, d2 vec.Vec2) int {
	m := max(r.deviceDelta(d1).Length(), r.deviceDelta(d2).Length())
	if m <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(math.Sqrt(3*m/(4*r.Flatness)))))
}

// addBar appends the rectangle of half-width d around the segment a-b,
// in clockwise order.
func addBar(out *path.Data, a, b vec.Vec2, d float64) *path.Data {
	t := b.Sub(a)
	t = t.Mul(1 / t.Length())
	n := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
	return out.MoveTo(a.Add(n)).LineTo(b.Add(n)).LineTo(b.Sub(n)).LineTo(a.Sub(n)).Close()
}

// addDisc appends a clockwise circle of radius d around c.  The number of
// points is chosen so that the sagitta in device space stays below
// r.Flatness.
func (r *Rasteriser) addDisc(out *path.Data, c vec.Vec2, d float64) *path.Data {
	dev := max(r.deviceDelta(vec.Vec2{X: d}).Length(), r.deviceDelta(vec.Vec2{Y: d}).Length())
	n := 8
	if dev > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/dev)
		n = max(n, int(math.Ceil(2*math.Pi/step)))
	}
	out = out.MoveTo(vec.Vec2{X: c.X + d, Y: c.Y})
	for i := 1; i < n; i++ {
		phi := -2 * math.Pi * float64(i) / float64(n)
		out = out.LineTo(vec.Vec2{X: c.X + d*math.Cos(phi), Y: c.Y + d*math.Sin(phi)})
	}
	return out.Close()
}
