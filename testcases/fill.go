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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/engrave/preview"
)

var basicCases = []TestCase{
	{
		Name:       "square",
		Path:       rectangle(16, 16, 48, 48),
		Width:      64,
		Height:     64,
		Components: 1,
	},
	{
		Name:       "triangle",
		Path:       triangle(10, 54, 32, 10, 54, 54),
		Width:      64,
		Height:     64,
		Components: 1,
	},
	{
		Name:       "star_nonzero",
		Path:       fivePointStar(32, 32, 26),
		Width:      64,
		Height:     64,
		Components: 1,
	},
	{
		// the tips only touch at the corners of the central pentagon
		Name:   "star_evenodd",
		Path:   fivePointStar(32, 32, 26),
		Width:  64,
		Height: 64,
		Rule:   preview.EvenOdd,
	},
}

var holeCases = []TestCase{
	{
		Name:       "frame",
		Path:       frame(32, 32, 22, 12),
		Width:      64,
		Height:     64,
		Rule:       preview.EvenOdd,
		Components: 2,
	},
	{
		Name: "two_frames",
		Path: concat(
			frame(24, 32, 16, 8),
			frame(72, 32, 16, 8),
		),
		Width:      96,
		Height:     64,
		Rule:       preview.EvenOdd,
		Components: 4,
	},
}

var logoCases = []TestCase{
	{
		Name: "letters",
		Path: concat(
			letterE(8, 12),
			letterL(40, 12),
			letterT(70, 12),
		),
		Width:      104,
		Height:     64,
		Components: 3,
	},
}

var polarityCases = []TestCase{
	{
		Name:       "inverted_square",
		Path:       rectangle(16, 16, 48, 48),
		Width:      64,
		Height:     64,
		Inverted:   true,
		Components: 1,
	},
}

// triangle builds a triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// fivePointStar builds a five-pointed star (self-intersecting).
func fivePointStar(cx, cy, r float64) *path.Data {
	p := &path.Data{}
	// draw star: 0 -> 2 -> 4 -> 1 -> 3 -> 0
	for k, i := range []int{0, 2, 4, 1, 3} {
		angle := float64(i)*2*math.Pi/5 - math.Pi/2
		v := pt(cx+r*math.Cos(angle), cy+r*math.Sin(angle))
		if k == 0 {
			p.MoveTo(v)
		} else {
			p.LineTo(v)
		}
	}
	return p.Close()
}

// rectangle builds a rectangular path.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// frame builds a square with a square cutout, for use with the even-odd
// rule.
func frame(cx, cy, outer, inner float64) *path.Data {
	return concat(
		rectangle(cx-outer, cy-outer, cx+outer, cy+outer),
		rectangle(cx-inner, cy-inner, cx+inner, cy+inner),
	)
}

// polyline builds a closed polygon from alternating x and y offsets
// relative to (x, y).
func polyline(x, y float64, offsets ...float64) *path.Data {
	p := (&path.Data{}).MoveTo(pt(x+offsets[0], y+offsets[1]))
	for i := 2; i+1 < len(offsets); i += 2 {
		p.LineTo(pt(x+offsets[i], y+offsets[i+1]))
	}
	return p.Close()
}

// The letters are 24 units wide and 40 units tall, with strokes 8 units
// wide.

func letterE(x, y float64) *path.Data {
	return polyline(x, y,
		0, 0, 24, 0, 24, 8, 8, 8, 8, 16, 20, 16, 20, 24,
		8, 24, 8, 32, 24, 32, 24, 40, 0, 40)
}

func letterL(x, y float64) *path.Data {
	return polyline(x, y,
		0, 0, 8, 0, 8, 32, 24, 32, 24, 40, 0, 40)
}

func letterT(x, y float64) *path.Data {
	return polyline(x, y,
		0, 0, 24, 0, 24, 8, 16, 8, 16, 40, 8, 40, 8, 8, 0, 8)
}

// concat joins several paths into one.
func concat(parts ...*path.Data) *path.Data {
	res := &path.Data{}
	for _, p := range parts {
		res.Cmds = append(res.Cmds, p.Cmds...)
		res.Coords = append(res.Coords, p.Coords...)
	}
	return res
}
