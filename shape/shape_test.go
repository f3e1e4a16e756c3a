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

package shape

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func square(x0, y0, side float64) Polygon {
	return Polygon{
		{X: x0, Y: y0},
		{X: x0 + side, Y: y0},
		{X: x0 + side, Y: y0 + side},
		{X: x0, Y: y0 + side},
	}
}

func TestArea(t *testing.T) {
	p := square(1, 1, 3)
	if a := p.Area(); a != 9 {
		t.Errorf("ccw area = %g, want 9", a)
	}

	// reversing the orientation flips the sign
	r := Polygon{p[3], p[2], p[1], p[0]}
	if a := r.Area(); a != -9 {
		t.Errorf("cw area = %g, want -9", a)
	}

	// an explicit closing point does not change the area
	if a := p.Closed().Area(); a != 9 {
		t.Errorf("closed area = %g, want 9", a)
	}

	line := Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if a := line.Area(); a != 0 {
		t.Errorf("collinear area = %g, want 0", a)
	}
}

func TestClosed(t *testing.T) {
	p := square(0, 0, 1)
	c := p.Closed()
	if len(c) != 5 || c[4] != c[0] {
		t.Fatalf("Closed() = %v", c)
	}
	if len(p) != 4 {
		t.Error("Closed() modified its receiver")
	}
	if cc := c.Closed(); len(cc) != 5 {
		t.Errorf("closing twice gave %d points, want 5", len(cc))
	}
	if o := c.Open(); len(o) != 4 {
		t.Errorf("Open() gave %d points, want 4", len(o))
	}
}

func TestPerimeter(t *testing.T) {
	p := square(0, 0, 2)
	if l := p.Perimeter(); l != 8 {
		t.Errorf("perimeter = %g, want 8", l)
	}
	if l := p.Closed().Perimeter(); l != 8 {
		t.Errorf("closed perimeter = %g, want 8", l)
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Error("empty input must not produce a bounding box")
	}
	if _, ok := Bounds([]Polygon{{}}); ok {
		t.Error("polygon without points must not produce a bounding box")
	}

	r, ok := Bounds([]Polygon{square(0, 0, 1), square(-2, 3, 1)})
	if !ok {
		t.Fatal("no bounding box")
	}
	want := rect.Rect{LLx: -2, LLy: 0, URx: 1, URy: 4}
	if r != want {
		t.Errorf("Bounds = %v, want %v", r, want)
	}
}

func TestTransform(t *testing.T) {
	p := square(1, 1, 1)
	m := matrix.Matrix{2, 0, 0, 2, 10, -5}
	q := p.Transform(m)
	if q[0] != (vec.Vec2{X: 12, Y: -3}) {
		t.Errorf("first point = %v", q[0])
	}
	if p[0] != (vec.Vec2{X: 1, Y: 1}) {
		t.Error("Transform modified its receiver")
	}
	if a := q.Area(); a != 4 {
		t.Errorf("scaled area = %g, want 4", a)
	}
}

func TestCircle(t *testing.T) {
	c := Circle{Center: vec.Vec2{X: 1, Y: 2}, Radius: 0.5}
	want := rect.Rect{LLx: 0.5, LLy: 1.5, URx: 1.5, URy: 2.5}
	if b := c.Bounds(); b != want {
		t.Errorf("Bounds = %v, want %v", b, want)
	}

	p := c.Path()
	n := 0
	for _, cmd := range p.Cmds {
		if cmd == path.CmdCubeTo {
			n++
		}
	}
	if n != 4 {
		t.Errorf("circle path has %d cubic segments, want 4", n)
	}
	if math.Abs(c.Area()-math.Pi/4) > 1e-12 {
		t.Errorf("area = %g", c.Area())
	}
}

func TestStrictlyInside(t *testing.T) {
	outer := rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}
	cases := []struct {
		inner rect.Rect
		want  bool
	}{
		{rect.Rect{LLx: 1, LLy: 1, URx: 9, URy: 9}, true},
		{rect.Rect{LLx: 0, LLy: 1, URx: 9, URy: 9}, false},
		{rect.Rect{LLx: 1, LLy: 1, URx: 10, URy: 9}, false},
		{rect.Rect{LLx: -1, LLy: 1, URx: 9, URy: 9}, false},
	}
	for _, c := range cases {
		if got := StrictlyInside(c.inner, outer); got != c.want {
			t.Errorf("StrictlyInside(%v) = %t, want %t", c.inner, got, c.want)
		}
	}
}
