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
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/engrave/gray"
	"seehuhn.de/go/engrave/shape"
)

// Approximation selects how many border pixels are kept.
type Approximation int

const (
	// ApproxSimple removes all points inside horizontal, vertical and
	// diagonal runs, keeping only the end points of each run.
	ApproxSimple Approximation = iota

	// ApproxNone keeps every border pixel.
	ApproxNone
)

// BorderFollower traces all borders of the 8-connected foreground
// components of a mask.  Holes are 4-connected.
//
// Borders are reported in the order in which their starting pixels are
// encountered by a row-major scan of the mask, so the output is fully
// determined by the input.
type BorderFollower struct {
	Approx Approximation
}

// neighbourhood in counter-clockwise order (as seen on screen, with y
// pointing down), starting east
var neighbours = [8]struct{ dx, dy int }{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

func direction(dx, dy int) int {
	for k, n := range neighbours {
		if n.dx == dx && n.dy == dy {
			return k
		}
	}
	panic("not a neighbour")
}

// Trace implements the [Tracer] interface.
func (b *BorderFollower) Trace(m *gray.Mask) ([]shape.Polygon, error) {
	// The label image has a one pixel border of background.
	w, h := m.Width+2, m.Height+2
	f := make([]int32, w*h)
	for y := range m.Height {
		for x := range m.Width {
			if m.Bits[y*m.Width+x] {
				f[(y+1)*w+x+1] = 1
			}
		}
	}

	var res []shape.Polygon
	var nbd int32 = 1
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			var fromX int
			switch {
			case f[i] == 1 && f[i-1] == 0:
				fromX = x - 1 // outer border
			case f[i] >= 1 && f[i+1] == 0:
				fromX = x + 1 // hole border
			default:
				continue
			}
			nbd++
			pts := follow(f, w, x, y, fromX, y, nbd)
			if b.Approx == ApproxSimple {
				pts = simplifyRuns(pts)
			}
			poly := make(shape.Polygon, len(pts))
			for k, p := range pts {
				poly[k] = vec.Vec2{X: float64(p.x - 1), Y: float64(p.y - 1)}
			}
			res = append(res, poly)
		}
	}
	return keep(res)
}

type pixel struct{ x, y int }

// follow traces the border starting at (x0, y0), where (x2, y2) is the
// background neighbour which triggered the start.  The border pixels are
// labelled with nbd (or -nbd, where the pixel touches the background on
// the right) as they are visited.
func follow(f []int32, w, x0, y0, x2, y2 int, nbd int32) []pixel {
	at := func(x, y int) int32 { return f[y*w+x] }

	// Search clockwise, starting at (x2, y2), for a foreground pixel.
	d := direction(x2-x0, y2-y0)
	found := -1
	for k := range 8 {
		dd := (d - k + 8) % 8
		n := neighbours[dd]
		if at(x0+n.dx, y0+n.dy) != 0 {
			found = dd
			break
		}
	}
	if found < 0 {
		// isolated pixel
		f[y0*w+x0] = -nbd
		return []pixel{{x0, y0}}
	}
	x1, y1 := x0+neighbours[found].dx, y0+neighbours[found].dy

	var pts []pixel
	x2, y2 = x1, y1
	x3, y3 := x0, y0
	for {
		pts = append(pts, pixel{x3, y3})

		// Search counter-clockwise, starting after (x2, y2).
		d := direction(x2-x3, y2-y3)
		eastIsBackground := false
		var x4, y4 int
		for k := 1; k <= 8; k++ {
			dd := (d + k) % 8
			n := neighbours[dd]
			if at(x3+n.dx, y3+n.dy) != 0 {
				x4, y4 = x3+n.dx, y3+n.dy
				break
			}
			if dd == 0 {
				eastIsBackground = true
			}
		}

		i3 := y3*w + x3
		if eastIsBackground {
			f[i3] = -nbd
		} else if f[i3] == 1 {
			f[i3] = nbd
		}

		if x4 == x0 && y4 == y0 && x3 == x1 && y3 == y1 {
			return pts
		}
		x2, y2 = x3, y3
		x3, y3 = x4, y4
	}
}

// simplifyRuns removes all points where the incoming and the outgoing
// step of the closed chain are the same.
func simplifyRuns(pts []pixel) []pixel {
	n := len(pts)
	if n < 3 {
		return pts
	}
	var res []pixel
	for i, p := range pts {
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		if p.x-prev.x == next.x-p.x && p.y-prev.y == next.y-p.y {
			continue
		}
		res = append(res, p)
	}
	return res
}
